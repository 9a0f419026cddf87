package jsonmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestRoundTripThroughJSONColumn(t *testing.T) {
	vars := map[string]string{"DEPLOY_ENV": "staging", "EMPTY": ""}
	assert.Equal(t, vars, ToStringMap(FromStringMap(vars)))

	assert.Empty(t, FromStringMap(nil))
	assert.NotNil(t, FromStringMap(nil))
	assert.Empty(t, ToStringMap(nil))
}

func TestToStringMapFormatsScalars(t *testing.T) {
	got := ToStringMap(datatypes.JSONMap{
		"retries": float64(3),
		"debug":   true,
		"unset":   nil,
	})

	assert.Equal(t, map[string]string{"retries": "3", "debug": "true", "unset": ""}, got)
}

func TestMerge(t *testing.T) {
	merged := Merge(
		map[string]string{"CI_COMMIT_REF_NAME": "master", "KEY": "base"},
		nil,
		map[string]string{"KEY": "override"},
	)
	assert.Equal(t, map[string]string{"CI_COMMIT_REF_NAME": "master", "KEY": "override"}, merged)

	assert.Equal(t, map[string]string{}, Merge())
}
