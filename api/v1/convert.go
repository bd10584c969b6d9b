package v1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// List wraps a top-level array, which a Struct cannot hold directly.
type List[T any] struct {
	Items []T `json:"items"`
}

// ToStruct converts any JSON-encodable object into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("message must be a JSON object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return s, nil
}

// FromStruct decodes a Struct into dest through its JSON form. A nil Struct
// leaves dest untouched.
func FromStruct(s *structpb.Struct, dest any) error {
	if s == nil {
		return nil
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode struct: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
