package fire

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/gate"
	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/variables"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTokenMissing is returned when a request carries no token at all.
var ErrTokenMissing = errors.New("token is missing")

// Dispatcher creates pipelines for authorized requests.
type Dispatcher interface {
	Create(ctx context.Context, req *dispatch.CreateRequest) (*models.Pipeline, error)
}

// Request is an inbound "start a pipeline" call. Variables are taken
// from Form when it is set and from the raw JSON otherwise.
type Request struct {
	ProjectID string
	Token     string
	PathRef   string
	BodyRef   string
	Variables json.RawMessage
	Form      url.Values
}

// Service runs a pipeline trigger request through validation,
// credential resolution, authorization and dispatch.
type Service struct {
	db         *gorm.DB
	resolver   credential.Resolver
	gate       *gate.Gate
	dispatcher Dispatcher
}

func New(db *gorm.DB, resolver credential.Resolver, g *gate.Gate, dispatcher Dispatcher) *Service {
	return &Service{
		db:         db,
		resolver:   resolver,
		gate:       g,
		dispatcher: dispatcher,
	}
}

// Fire creates a pipeline for req. Returned errors are meant to be
// passed through Classify before reaching a client.
func (s *Service) Fire(ctx context.Context, req *Request) (pipeline *models.Pipeline, err error) {
	source := credential.KindAbsent
	defer func() {
		metrics.TriggerFiresTotal.WithLabelValues(source.String(), string(Classify(err).Kind)).Inc()
	}()

	if strings.TrimSpace(req.Token) == "" {
		return nil, ErrTokenMissing
	}

	vars, err := s.variables(req)
	if err != nil {
		return nil, err
	}

	id, err := s.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	source = id.Kind

	project, err := s.project(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate.Authorize(ctx, id, project, len(vars) > 0)
	if err != nil {
		log.Debug("pipeline trigger rejected", "project_id", req.ProjectID, "source", source, "error", err)
		return nil, err
	}

	return s.dispatcher.Create(ctx, &dispatch.CreateRequest{
		Project:               project,
		Ref:                   dispatch.EffectiveRef(req.PathRef, req.BodyRef),
		Source:                decision.Source,
		UserID:                decision.ActingUserID,
		TriggeredByPipelineID: decision.TriggeredByPipelineID,
		Trigger:               decision.Trigger,
		Variables:             vars,
	})
}

func (s *Service) variables(req *Request) (map[string]string, error) {
	if req.Form != nil {
		return variables.FromForm(req.Form)
	}
	return variables.Validate(req.Variables)
}

// project loads the target project. Malformed and unknown ids both
// yield a nil project so the gate reports them identically.
func (s *Service) project(ctx context.Context, rawID string) (*models.Project, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, nil
	}

	var project models.Project

	err = s.db.WithContext(ctx).First(&project, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return &project, nil
	}
}
