package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ConstraintDefinition configures one solver constraint.
type ConstraintDefinition struct {
	Code          string               `json:"code" validate:"required"`
	IsSoft        bool                 `json:"isSoft"`
	PenaltyWeight *float64             `json:"penaltyWeight,omitempty" validate:"omitempty,min=0,max=1"`
	Parameters    ConstraintParameters `json:"parameters"`
}

// ParametersKind tags the shape constraint parameters arrived in.
type ParametersKind int

const (
	ParametersAbsent ParametersKind = iota
	ParametersKeyValueList
	ParametersRawObject
)

func (k ParametersKind) String() string {
	switch k {
	case ParametersKeyValueList:
		return "key_value_list"
	case ParametersRawObject:
		return "raw_object"
	default:
		return "absent"
	}
}

// ParameterPair is one parameter with its still-encoded JSON value.
type ParameterPair struct {
	Key   string
	Value json.RawMessage
}

// ConstraintParameters is the parsed form of the free-form parameters field. Exactly one
// Kind is set. Shapes other than an object or a list of {key, value} items parse as
// ParametersAbsent and keep the original bytes in Unrecognized.
type ConstraintParameters struct {
	Kind         ParametersKind
	Pairs        []ParameterPair
	Unrecognized json.RawMessage
	SkippedItems int
}

// ParseConstraintParameters sniffs the JSON shape of raw. Only malformed JSON is an error.
func ParseConstraintParameters(raw []byte) (ConstraintParameters, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ConstraintParameters{Kind: ParametersAbsent}, nil
	}
	if !json.Valid(trimmed) {
		return ConstraintParameters{}, fmt.Errorf("constraint parameters: invalid json")
	}

	switch trimmed[0] {
	case '{':
		pairs, err := decodeOrderedObject(trimmed)
		if err != nil {
			return ConstraintParameters{}, err
		}
		return ConstraintParameters{Kind: ParametersRawObject, Pairs: pairs}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ConstraintParameters{}, fmt.Errorf("constraint parameters: %w", err)
		}
		params := ConstraintParameters{Kind: ParametersKeyValueList}
		for _, item := range items {
			pair, ok := decodeListItem(item)
			if !ok {
				params.SkippedItems++
				continue
			}
			params.Pairs = append(params.Pairs, pair)
		}
		return params, nil
	default:
		return ConstraintParameters{Kind: ParametersAbsent, Unrecognized: append(json.RawMessage(nil), trimmed...)}, nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ConstraintParameters) UnmarshalJSON(data []byte) error {
	parsed, err := ParseConstraintParameters(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON writes the parameters back in the shape they were received in.
func (p ConstraintParameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	switch p.Kind {
	case ParametersRawObject:
		buf.WriteByte('{')
		for i, pair := range p.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(pair.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(valueOrNull(pair.Value))
		}
		buf.WriteByte('}')
	case ParametersKeyValueList:
		buf.WriteByte('[')
		for i, pair := range p.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(pair.Key)
			if err != nil {
				return nil, err
			}
			buf.WriteString(`{"key":`)
			buf.Write(key)
			buf.WriteString(`,"value":`)
			buf.Write(valueOrNull(pair.Value))
			buf.WriteByte('}')
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return buf.Bytes(), nil
}

func decodeOrderedObject(raw []byte) ([]ParameterPair, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("constraint parameters: %w", err)
	}
	var pairs []ParameterPair
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("constraint parameters: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("constraint parameters: unexpected key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("constraint parameters: %w", err)
		}
		// a repeated key keeps its first position and its last value
		if at, seen := index[key]; seen {
			pairs[at].Value = value
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, ParameterPair{Key: key, Value: value})
	}
	return pairs, nil
}

func decodeListItem(item json.RawMessage) (ParameterPair, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return ParameterPair{}, false
	}
	rawKey, ok := fields["key"]
	if !ok {
		return ParameterPair{}, false
	}
	var key string
	if err := json.Unmarshal(rawKey, &key); err != nil {
		key = string(bytes.TrimSpace(rawKey))
	}
	return ParameterPair{Key: key, Value: fields["value"]}, true
}

func valueOrNull(value json.RawMessage) []byte {
	if len(value) == 0 {
		return []byte("null")
	}
	return value
}
