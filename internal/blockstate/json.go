package blockstate

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roach88/statemig/internal/tag"
)

// jsonTag is the {type, value} form of a property value.
type jsonTag struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type jsonState struct {
	Name   string             `json:"name"`
	States map[string]jsonTag `json:"states"`
}

// MarshalJSON encodes s as {"name": ..., "states": {prop: {"type", "value"}}}.
func (s State) MarshalJSON() ([]byte, error) {
	out := jsonState{Name: s.Name, States: make(map[string]jsonTag, len(s.Properties))}
	for k, v := range s.Properties {
		out.States[k] = jsonTag{Type: string(v.Type()), Value: tag.Native(v)}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
// Property values go through tag.New, so type errors surface here.
func (s *State) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var in jsonState
	if err := dec.Decode(&in); err != nil {
		return err
	}
	if in.Name == "" {
		return fmt.Errorf("block state: name is required")
	}

	props := make(map[string]tag.Value, len(in.States))
	for k, raw := range in.States {
		v, err := tag.New(raw.Type, raw.Value)
		if err != nil {
			return fmt.Errorf("block state %s: property %q: %w", in.Name, k, err)
		}
		props[k] = v
	}
	*s = State{Name: in.Name, Properties: props}
	return nil
}

// Parse decodes a JSON-encoded State.
func Parse(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	return s, nil
}
