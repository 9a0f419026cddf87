package fire

import (
	"errors"
	"net/http"

	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/gate"
	"github.com/caesium-cloud/relay/internal/variables"
)

// Kind is the externally visible class of a trigger outcome.
type Kind string

const (
	KindCreated    Kind = "created"
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindInternal   Kind = "internal"
)

// Outcome is what a transport renders for a trigger result.
type Outcome struct {
	Kind   Kind
	Status int
	Body   map[string]any
}

// NotFound is shared by every failure that must not reveal whether a
// project or credential exists.
var NotFound = Outcome{
	Kind:   KindNotFound,
	Status: http.StatusNotFound,
	Body:   map[string]any{"message": "404 Not Found"},
}

// Classify maps an error returned by Service.Fire onto its outcome.
func Classify(err error) Outcome {
	var permission *gate.PermissionError

	switch {
	case err == nil:
		return Outcome{Kind: KindCreated, Status: http.StatusCreated}
	case errors.Is(err, credential.ErrTokenInvalid),
		errors.Is(err, gate.ErrProjectMissing),
		errors.Is(err, gate.ErrProjectMismatch):
		return NotFound
	case errors.Is(err, ErrTokenMissing):
		return badRequest("error", "token is missing")
	case errors.Is(err, variables.ErrInvalid):
		return badRequest("error", "variables is invalid")
	case errors.Is(err, variables.ErrNotStringMap):
		return badRequest("message", "variables needs to be a map of key-valued strings")
	case errors.Is(err, gate.ErrJobNotRunning):
		return badRequest("message", "Job has to be running")
	case errors.Is(err, gate.ErrVariablesNotSupported):
		return badRequest("message", "Variables not supported")
	case errors.Is(err, dispatch.ErrNoPipelineCreated):
		return badRequest("message", "No pipeline created")
	case errors.As(err, &permission):
		return badRequest("message", map[string][]string{permission.Field: {permission.Message}})
	default:
		return Outcome{
			Kind:   KindInternal,
			Status: http.StatusInternalServerError,
			Body:   map[string]any{"message": "500 Internal Server Error"},
		}
	}
}

func badRequest(key string, value any) Outcome {
	return Outcome{
		Kind:   KindBadRequest,
		Status: http.StatusBadRequest,
		Body:   map[string]any{key: value},
	}
}
