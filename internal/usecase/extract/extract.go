package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

var (
	ErrNotJSON  = errors.New("response body is not valid JSON")
	ErrNoValue  = errors.New("no value found")
	ErrNotArray = errors.New("value is not an array")
)

// Strings evaluates a JSONPath expression against a JSON body and returns the
// string elements of the resulting array.
//
// Policy:
// - body not JSON, path missing or empty expression -> error, no values.
// - value is not an array (a bare string included) -> ErrNotArray.
// - non-string array elements are skipped.
func Strings(body []byte, expr string) ([]string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("extract: empty jsonpath expression")
	}

	doc, err := parseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("extract (%s): %w", expr, ErrNotJSON)
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("extract (%s): jsonpath error: %v: %w", expr, err, ErrNoValue)
	}
	if val == nil {
		return nil, fmt.Errorf("extract (%s): %w", expr, ErrNoValue)
	}

	switch t := val.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("extract (%s): got %T: %w", expr, val, ErrNotArray)
	}
}

// Compile reports whether expr is a usable JSONPath expression.
func Compile(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("extract: empty jsonpath expression")
	}
	if _, err := jsonpath.New(expr); err != nil {
		return fmt.Errorf("extract (%s): %w", expr, err)
	}
	return nil
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
