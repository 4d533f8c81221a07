// Package services implements the core business logic for galeria.
//
// The central piece is the Discovery aggregator: it fans a query out
// across independent record sources, applies the shared fuzzy matcher
// per record, and merges the hits into one de-duplicated, ranked,
// capped result list. Tag pages, the artist directory and the
// site-wide search are all thin source configurations over the same
// aggregator.
//
// Services receive their dependencies (the record store) explicitly at
// construction. There is no ambient backend handle.
package services
