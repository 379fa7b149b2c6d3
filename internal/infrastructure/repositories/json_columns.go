package repositories

import "encoding/json"

// marshalColumn serializes a nested block into its JSON column. An empty
// slice still serializes to "[]" so columns never hold SQL NULL for
// append-only lists.
func marshalColumn(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func unmarshalColumn(data string, v interface{}) {
	if data == "" {
		return
	}
	// Corrupt column data degrades to the zero value rather than failing the
	// whole read.
	_ = json.Unmarshal([]byte(data), v)
}
