package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// RecordKind discriminates the shape of a Record node.
type RecordKind int

const (
	// KindNull is the absent value. The zero Record is null.
	KindNull RecordKind = iota

	// KindBool is a boolean scalar.
	KindBool

	// KindNumber is a numeric scalar (stored as float64, like JSON).
	KindNumber

	// KindString is a text scalar.
	KindString

	// KindList is an ordered sequence of Records.
	KindList

	// KindMap is a keyed collection of Records with preserved key order.
	KindMap
)

func (k RecordKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Record is a schema-less tree value representing one stored entity.
// The backend does not guarantee any particular shape, so all accessors
// are total: an access that does not apply to the node's kind returns
// the zero value rather than panicking.
//
// Map key order is preserved from the decoded input so that text
// extraction over a Record is deterministic.
type Record struct {
	kind RecordKind
	b    bool
	n    float64
	s    string
	list []Record
	keys []string
	vals map[string]Record
}

// Null returns the null Record.
func Null() Record {
	return Record{}
}

// Bool returns a boolean Record.
func Bool(b bool) Record {
	return Record{kind: KindBool, b: b}
}

// Number returns a numeric Record.
func Number(n float64) Record {
	return Record{kind: KindNumber, n: n}
}

// String returns a string Record.
func String(s string) Record {
	return Record{kind: KindString, s: s}
}

// List returns a list Record with the given elements.
func List(elems ...Record) Record {
	return Record{kind: KindList, list: elems}
}

// Field is one key/value entry of a map Record.
type Field struct {
	Key   string
	Value Record
}

// Map returns a map Record. Field order is preserved; a repeated key
// keeps the last value but its original position.
func Map(fields ...Field) Record {
	r := Record{
		kind: KindMap,
		keys: make([]string, 0, len(fields)),
		vals: make(map[string]Record, len(fields)),
	}
	for _, f := range fields {
		if _, ok := r.vals[f.Key]; !ok {
			r.keys = append(r.keys, f.Key)
		}
		r.vals[f.Key] = f.Value
	}
	return r
}

// Kind returns the node's kind.
func (r Record) Kind() RecordKind {
	return r.kind
}

// IsNull reports whether the node is null.
func (r Record) IsNull() bool {
	return r.kind == KindNull
}

// AsBool returns the boolean value, or false for non-bool nodes.
func (r Record) AsBool() bool {
	if r.kind != KindBool {
		return false
	}
	return r.b
}

// AsNumber returns the numeric value, or 0 for non-number nodes.
func (r Record) AsNumber() float64 {
	if r.kind != KindNumber {
		return 0
	}
	return r.n
}

// AsString returns the string value, or "" for non-string nodes.
func (r Record) AsString() string {
	if r.kind != KindString {
		return ""
	}
	return r.s
}

// Text stringifies a scalar node: strings as-is, numbers without a
// trailing ".0" for integral values, booleans as "true"/"false".
// Non-scalar nodes return "".
func (r Record) Text() string {
	switch r.kind {
	case KindString:
		return r.s
	case KindNumber:
		return strconv.FormatFloat(r.n, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(r.b)
	default:
		return ""
	}
}

// Len returns the element count for lists and the key count for maps.
func (r Record) Len() int {
	switch r.kind {
	case KindList:
		return len(r.list)
	case KindMap:
		return len(r.keys)
	default:
		return 0
	}
}

// Index returns the i-th element of a list, or null when out of range
// or not a list.
func (r Record) Index(i int) Record {
	if r.kind != KindList || i < 0 || i >= len(r.list) {
		return Null()
	}
	return r.list[i]
}

// Elems returns the elements of a list node, or nil.
func (r Record) Elems() []Record {
	if r.kind != KindList {
		return nil
	}
	return r.list
}

// Keys returns the map keys in their original order, or nil.
func (r Record) Keys() []string {
	if r.kind != KindMap {
		return nil
	}
	return r.keys
}

// Get returns the value for key, or null when absent or not a map.
func (r Record) Get(key string) Record {
	if r.kind != KindMap {
		return Null()
	}
	return r.vals[key]
}

// GetString is shorthand for Get(key).AsString().
func (r Record) GetString(key string) string {
	return r.Get(key).AsString()
}

// GetTime parses the value for key as an RFC 3339 timestamp.
// Missing or malformed values return the zero time; callers treat the
// zero time as "oldest" when ranking.
func (r Record) GetTime(key string) time.Time {
	s := r.GetString(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DecodeRecord parses a JSON document into a Record. Unlike
// unmarshalling into map[string]any, object key order is preserved,
// which keeps downstream text extraction deterministic.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	r, err := decodeValue(dec)
	if err != nil {
		return Null(), fmt.Errorf("decode record: %w", err)
	}

	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return Null(), fmt.Errorf("decode record: trailing data")
	}
	return r, nil
}

func decodeValue(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(n), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Record
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Null(), err
			}
			return List(elems...), nil
		case '{':
			var fields []Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), fmt.Errorf("object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return Null(), err
			}
			return Map(fields...), nil
		}
	}
	return Null(), fmt.Errorf("unexpected token %v", tok)
}

// EncodeRecord renders a Record back to JSON, preserving map key order.
func EncodeRecord(r Record) ([]byte, error) {
	var sb strings.Builder
	if err := encodeValue(&sb, r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return []byte(sb.String()), nil
}

func encodeValue(sb *strings.Builder, r Record) error {
	switch r.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(r.b))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(r.n, 'f', -1, 64))
	case KindString:
		data, err := json.Marshal(r.s)
		if err != nil {
			return err
		}
		sb.Write(data)
	case KindList:
		sb.WriteByte('[')
		for i, elem := range r.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := encodeValue(sb, elem); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, key := range r.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			data, err := json.Marshal(key)
			if err != nil {
				return err
			}
			sb.Write(data)
			sb.WriteByte(':')
			if err := encodeValue(sb, r.vals[key]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}
