// Package jsonmap converts between plain string maps and the JSON
// columns gorm persists them in.
package jsonmap

import (
	"fmt"

	"gorm.io/datatypes"
)

func FromStringMap(values map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}

// ToStringMap flattens a JSON map. JSON null becomes the empty
// string and other non-string values use fmt's default format.
func ToStringMap(values datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}

// Merge combines maps into a new map. Later maps win on collisions.
func Merge(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}
