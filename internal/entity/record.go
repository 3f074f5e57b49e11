package entity

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Record is one loosely typed row keyed by destination column name. Values are
// whatever the source produced (JSON numbers arrive as json.Number) until the
// normalizer rewrites them.
type Record map[string]any

// Clone returns a shallow copy; list values are copied one level deep.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := maps.Clone(r)
	for k, v := range out {
		if list, ok := v.([]any); ok {
			out[k] = append([]any(nil), list...)
		}
	}
	return out
}

// Present reports whether key holds a non-null value.
func (r Record) Present(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// ToRecord converts a typed value into its loose Record form through its JSON tags.
func ToRecord(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

func decodeRecord(b []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}
