package records

import (
	"encoding/json"
	"strconv"
)

// Metadata is a string-keyed scalar map. The scraper emits mixed scalar
// types (strings, numbers, booleans), so unmarshalling coerces every value
// to its string form; non-scalar values are dropped.
type Metadata map[string]string

// UnmarshalJSON implements json.Unmarshaler
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Metadata, len(raw))
	for k, v := range raw {
		switch value := v.(type) {
		case string:
			out[k] = value
		case float64:
			out[k] = strconv.FormatFloat(value, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(value)
		case nil:
			out[k] = ""
		}
	}

	*m = out
	return nil
}
