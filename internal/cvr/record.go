// File path: internal/cvr/record.go

// Package cvr models raw records from CVR dumps published by
// Erhvervsstyrelsen (the Danish Business Authority) and exposes typed,
// default-tolerant views over their nested payloads.
package cvr

import "sort"

// SourceKeyVirksomhed marks a record whose payload describes a company.
// Dumps also carry "VrproduktionsEnhed" (production units),
// "Vrdeltagerperson" (participants) and a single meta entry.
const SourceKeyVirksomhed = "Vrvirksomhed"

// Record is one raw entry from a CVR dump: a thin envelope around the
// semi-structured payload. Records are treated as immutable once decoded.
type Record struct {
	ID     string                 `json:"_id"`
	Index  string                 `json:"_index"`
	Type   string                 `json:"_type"`
	Source map[string]interface{} `json:"_source"`
}

// Company returns a view over the record's company payload. The second
// return value is false for meta, production-unit and participant records.
func (r *Record) Company() (*Virksomhed, bool) {
	if r == nil {
		return nil, false
	}
	payload, ok := r.Source[SourceKeyVirksomhed].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return NewVirksomhed(payload), true
}

// SourceFields returns the sorted top-level keys of the record payload.
func (r *Record) SourceFields() []string {
	if r == nil || len(r.Source) == 0 {
		return nil
	}
	fields := make([]string, 0, len(r.Source))
	for key := range r.Source {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields
}

// dig walks a sequence of key lookups through nested maps. It reports false
// as soon as a key is missing or an intermediate value is not a mapping.
func dig(data map[string]interface{}, path ...string) (interface{}, bool) {
	var current interface{} = data
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func digString(data map[string]interface{}, path ...string) string {
	raw, ok := dig(data, path...)
	if !ok {
		return ""
	}
	value, _ := raw.(string)
	return value
}

func digInt(data map[string]interface{}, path ...string) int {
	raw, ok := dig(data, path...)
	if !ok {
		return 0
	}
	// encoding/json decodes all numbers as float64.
	value, ok := raw.(float64)
	if !ok {
		return 0
	}
	return int(value)
}

func digBool(data map[string]interface{}, path ...string) bool {
	raw, ok := dig(data, path...)
	if !ok {
		return false
	}
	value, _ := raw.(bool)
	return value
}

func digSlice(data map[string]interface{}, path ...string) []interface{} {
	raw, ok := dig(data, path...)
	if !ok {
		return nil
	}
	value, _ := raw.([]interface{})
	return value
}
