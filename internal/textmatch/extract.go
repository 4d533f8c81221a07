package textmatch

import "github.com/galeria-labs/galeria/internal/core/domain"

// priorityKeys are the field names whose values identify a nested
// object. They are surfaced before the generic traversal so the
// identifying text of a nested object always leads its section of the
// pool. The order is fixed and part of the extraction contract.
var priorityKeys = [...]string{"slug", "name", "title", "label", "value", "text"}

// CollectText flattens a record of any shape into an ordered pool of
// candidate text fragments.
//
// Scalars are stringified. Lists recurse element-wise in order. Maps
// surface each priority key first, then recurse into every value in key
// order, so priority fields appear twice. The duplication is deliberate:
// the matcher tolerates duplicate fragments, and for a discovery feature
// a missed match costs more than an extra one.
//
// Null nodes contribute nothing. The function is total and never
// panics on any legal record.
func CollectText(r domain.Record) []string {
	var pool []string
	appendText(&pool, r)
	return pool
}

// CollectPool flattens several records into one pool, preserving
// record order.
func CollectPool(records ...domain.Record) []string {
	var pool []string
	for _, r := range records {
		appendText(&pool, r)
	}
	return pool
}

func appendText(pool *[]string, r domain.Record) {
	switch r.Kind() {
	case domain.KindString, domain.KindNumber, domain.KindBool:
		*pool = append(*pool, r.Text())
	case domain.KindList:
		for _, elem := range r.Elems() {
			appendText(pool, elem)
		}
	case domain.KindMap:
		for _, key := range priorityKeys {
			if v := r.Get(key); !v.IsNull() {
				appendText(pool, v)
			}
		}
		for _, key := range r.Keys() {
			appendText(pool, r.Get(key))
		}
	}
}
