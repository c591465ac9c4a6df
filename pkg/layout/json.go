package layout

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes l as JSON.
func Marshal(l ComputedLayout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a layout written by Marshal.
func Unmarshal(data []byte) (ComputedLayout, error) {
	var l ComputedLayout
	if err := json.Unmarshal(data, &l); err != nil {
		return ComputedLayout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}
