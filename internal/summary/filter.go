package summary

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/postdash/internal/selection"
	"github.com/studiowebux/postdash/internal/types"
)

// ApplyFilter evaluates a JMESPath expression against a JSON body and
// returns the result re-marshaled with 2-space indentation.
func ApplyFilter(body string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// IsValidFilter checks if an expression is valid JMESPath syntax
func IsValidFilter(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// FilterResponses returns a copy of the entries with the expression applied
// to every saved example response body. A body the expression cannot be
// applied to (not JSON, no match) is left untouched: filtering degrades,
// it never drops a response.
func FilterResponses(entries []selection.Entry, expression string) []selection.Entry {
	if expression == "" {
		return entries
	}

	out := make([]selection.Entry, len(entries))
	copy(out, entries)

	for i := range out {
		responses := out[i].Endpoint.Responses
		if len(responses) == 0 {
			continue
		}

		copied := make([]types.Response, 0, len(responses))
		for _, r := range responses {
			if r.Body != "" {
				if result, err := ApplyFilter(r.Body, expression); err == nil {
					r.Body = result
				}
			}
			copied = append(copied, r)
		}
		out[i].Endpoint.Responses = copied
	}

	return out
}
