package types

import (
	"bytes"
	"encoding/json"
)

// FlexList accepts either a single JSON object or a JSON array of them.
// Artifact upload bodies carry one file or a batch through the same field.
type FlexList[T any] []T

func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '[' {
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return err
		}
		*f = FlexList[T]{item}
		return nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*f = FlexList[T](items)
	return nil
}

// Slice converts back to a plain []T.
func (f FlexList[T]) Slice() []T {
	return []T(f)
}
