package fire

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/gate"
	"github.com/caesium-cloud/relay/internal/variables"
	"github.com/stretchr/testify/assert"
)

func TestClassifyCollapsesNotFound(t *testing.T) {
	for _, err := range []error{
		credential.ErrTokenInvalid,
		gate.ErrProjectMissing,
		gate.ErrProjectMismatch,
		fmt.Errorf("wrapped: %w", gate.ErrProjectMismatch),
	} {
		assert.Equal(t, NotFound, Classify(err), err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   Kind
	}{
		{nil, http.StatusCreated, KindCreated},
		{variables.ErrInvalid, http.StatusBadRequest, KindBadRequest},
		{variables.ErrNotStringMap, http.StatusBadRequest, KindBadRequest},
		{gate.ErrJobNotRunning, http.StatusBadRequest, KindBadRequest},
		{gate.ErrVariablesNotSupported, http.StatusBadRequest, KindBadRequest},
		{gate.ErrInsufficientPermissions, http.StatusBadRequest, KindBadRequest},
		{dispatch.ErrNoPipelineCreated, http.StatusBadRequest, KindBadRequest},
		{ErrTokenMissing, http.StatusBadRequest, KindBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError, KindInternal},
	}

	for _, tc := range cases {
		outcome := Classify(tc.err)
		assert.Equal(t, tc.status, outcome.Status, "%v", tc.err)
		assert.Equal(t, tc.kind, outcome.Kind, "%v", tc.err)
	}
}

func TestClassifyInternalDoesNotLeakCause(t *testing.T) {
	outcome := Classify(errors.New("sql: database is locked"))
	assert.Equal(t, map[string]any{"message": "500 Internal Server Error"}, outcome.Body)
}
