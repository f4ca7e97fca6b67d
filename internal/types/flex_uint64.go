package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexUint64 accepts either a JSON number or a numeric JSON string. Editor
// clients send load priorities both ways.
type FlexUint64 uint64

func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexUint64: invalid uint64 string %q: %w", s, err)
		}
		*f = FlexUint64(val)
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("FlexUint64: expected number or numeric string: %w", err)
	}
	*f = FlexUint64(n)
	return nil
}

// MarshalJSON always emits a JSON number.
func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}
