package image

import (
	"encoding/json"
	"fmt"
	"strings"

	"uniformgen/internal/domain"
)

// ExtractImageURL reads the image locator out of a backend output. Recognised shapes
// are a list (first element, either a string or an object with url/image), a bare
// string, and an object with an image or url key. Anything else is an output parse
// failure rather than an empty result.
func ExtractImageURL(raw json.RawMessage) (string, error) {
	var output any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &output); err != nil {
			return "", fmt.Errorf("%w: decode output: %v", domain.ErrOutputParse, err)
		}
	}
	var locator string
	switch v := output.(type) {
	case []any:
		if len(v) > 0 {
			switch first := v[0].(type) {
			case string:
				locator = first
			case map[string]any:
				locator = stringField(first, "url", "image")
			}
		}
	case string:
		locator = v
	case map[string]any:
		locator = stringField(v, "image", "url")
	}
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("%w: unrecognised output %s", domain.ErrOutputParse, snippet(raw))
	}
	return locator, nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func snippet(raw json.RawMessage) string {
	const max = 200
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "<empty>"
	}
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
