package solverbridge

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// NormalizeParameters turns parsed parameters into an ordered key/value list. Absent or
// empty parameters yield nil so the field is omitted from the request.
func NormalizeParameters(params models.ConstraintParameters) []dto.ConstraintParameterDTO {
	if params.Kind == models.ParametersAbsent || len(params.Pairs) == 0 {
		return nil
	}

	out := make([]dto.ConstraintParameterDTO, 0, len(params.Pairs))
	for _, pair := range params.Pairs {
		out = append(out, dto.ConstraintParameterDTO{Key: pair.Key, Value: stringOf(pair.Value)})
	}
	return out
}

// stringOf renders a JSON value as plain text: strings unquoted, numbers in their shortest
// decimal form, literals as written and arrays or objects as compact JSON.
func stringOf(raw json.RawMessage) string {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 {
		return "null"
	}

	switch value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return string(value)
		}
		return s
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return string(value)
		}
		return buf.String()
	case 't', 'f', 'n':
		return string(value)
	default:
		f, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return string(value)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
