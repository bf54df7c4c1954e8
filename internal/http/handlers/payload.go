package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The web form posts numbers and checkboxes as strings, so the request fields accept
// either JSON strings or native values.

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}

type looseInt struct {
	Value int
	Set   bool
}

func (i *looseInt) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil || raw == "" {
		return err
	}
	if v, err := strconv.Atoi(raw); err == nil {
		i.Value, i.Set = v, true
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %q", raw)
	}
	i.Value, i.Set = int(f), true
	return nil
}

type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil || raw == "" {
		return err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", raw)
	}
	*f = looseFloat(v)
	return nil
}

type looseBool struct {
	Value bool
	Set   bool
}

func (v *looseBool) UnmarshalJSON(b []byte) error {
	raw, err := scalarText(b)
	if err != nil || raw == "" {
		return err
	}
	switch strings.ToLower(raw) {
	case "on", "true", "1", "yes":
		v.Value = true
	case "off", "false", "0", "no":
		v.Value = false
	default:
		return fmt.Errorf("expected boolean, got %q", raw)
	}
	v.Set = true
	return nil
}

// scalarText returns the text of a JSON string, number or bool. null and "" yield "".
func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	if b[0] == '{' || b[0] == '[' {
		return "", fmt.Errorf("expected scalar, got %s", b)
	}
	return string(b), nil
}
