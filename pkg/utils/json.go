package utils

import (
	jsoniter "github.com/json-iterator/go"
)

var prettyJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// PrettyJson serializa com indentação. Aceita []byte já serializado.
func PrettyJson(in any) string {
	if raw, ok := in.([]byte); ok {
		var decoded any
		if err := prettyJSON.Unmarshal(raw, &decoded); err != nil {
			return string(raw)
		}
		in = decoded
	}

	out, err := prettyJSON.MarshalIndent(in, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(out)
}
