// File path: internal/cvr/fields.go
package cvr

// FieldCounts returns how often each '.'-separated field path occurs in the
// company payload. Sequences contribute one count per element, so repeated
// nested entries show up with multiplicity.
func (v *Virksomhed) FieldCounts() map[string]int {
	counts := make(map[string]int)
	countFields("", v.data, counts)
	return counts
}

func countFields(prefix string, value interface{}, counts map[string]int) {
	switch node := value.(type) {
	case []interface{}:
		for _, element := range node {
			countFields(prefix, element, counts)
		}
	case map[string]interface{}:
		for key, nested := range node {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			countFields(path, nested, counts)
		}
	case nil:
		// Null fields carry no value and are not counted.
	default:
		if prefix != "" {
			counts[prefix]++
		}
	}
}

// MergeFieldCounts accumulates src into dst and returns dst.
func MergeFieldCounts(dst, src map[string]int) map[string]int {
	if dst == nil {
		dst = make(map[string]int, len(src))
	}
	for path, count := range src {
		dst[path] += count
	}
	return dst
}
