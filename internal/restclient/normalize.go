package restclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// normalizeList decodes a list that the API serves in one of two shapes:
// a bare JSON array, or an object wrapping the array under "data" (older
// endpoints use "items"). A null body reads as an empty list.
func normalizeList(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.Unmarshal([]byte("[]"), out)
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("decode list envelope: %w", err)
	}
	inner := envelope.Data
	if inner == nil {
		inner = envelope.Items
	}
	if inner == nil || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return json.Unmarshal([]byte("[]"), out)
	}
	return json.Unmarshal(inner, out)
}
