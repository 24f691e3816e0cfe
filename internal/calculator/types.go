package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	errExpressionRequired = errors.New("expression required")
	errExpressionType     = errors.New("expression must be a string or number")
)

// CalculateRequest is the JSON body for POST /calculate. Expression may be a
// JSON string or a JSON number.
type CalculateRequest struct {
	Expression json.RawMessage `json:"expression"`
}

// Text returns the expression as text. Missing, null, empty-string and false
// values count as absent.
func (r CalculateRequest) Text() (string, error) {
	if len(r.Expression) == 0 {
		return "", errExpressionRequired
	}

	var v any
	if err := json.Unmarshal(r.Expression, &v); err != nil {
		return "", fmt.Errorf("decode expression: %w", err)
	}

	switch e := v.(type) {
	case nil:
		return "", errExpressionRequired
	case bool:
		if !e {
			return "", errExpressionRequired
		}
		return "", errExpressionType
	case string:
		if e == "" {
			return "", errExpressionRequired
		}
		return e, nil
	case float64:
		return strconv.FormatFloat(e, 'f', -1, 64), nil
	default:
		return "", errExpressionType
	}
}
