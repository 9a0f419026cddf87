package variables

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrInvalid is returned when variables are not a mapping.
	ErrInvalid = errors.New("variables is invalid")
	// ErrNotStringMap is returned when a mapping value is not a string.
	ErrNotStringMap = errors.New("variables needs to be a map of key-valued strings")
)

// Validate checks that raw is absent or a JSON object of string
// values and returns it as a map. Absent input yields an empty map.
func Validate(raw json.RawMessage) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]string{}, nil
	}

	var fields map[string]json.RawMessage
	if trimmed[0] != '{' {
		return nil, ErrInvalid
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, ErrInvalid
	}

	out := make(map[string]string, len(fields))
	for key, value := range fields {
		var str string
		if !bytes.HasPrefix(bytes.TrimSpace(value), []byte(`"`)) {
			return nil, ErrNotStringMap
		}
		if err := json.Unmarshal(value, &str); err != nil {
			return nil, ErrNotStringMap
		}
		out[key] = str
	}

	return out, nil
}

// FromForm extracts variables from form encoded parameters using the
// variables[KEY]=VALUE convention. A bare "variables" parameter is a
// scalar and therefore invalid; nested or repeated keys are not
// plain strings.
func FromForm(form url.Values) (map[string]string, error) {
	if _, ok := form["variables"]; ok {
		return nil, ErrInvalid
	}

	out := map[string]string{}
	for param, values := range form {
		if !strings.HasPrefix(param, "variables[") {
			continue
		}

		key := strings.TrimPrefix(param, "variables[")
		end := strings.IndexByte(key, ']')
		if end <= 0 {
			return nil, ErrInvalid
		}

		if rest := key[end+1:]; rest != "" || len(values) != 1 {
			return nil, ErrNotStringMap
		}

		out[key[:end]] = values[0]
	}

	return out, nil
}
