package ciconfig

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/repository"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Keywords accepted in only/except lists besides ref globs.
const (
	KeywordBranches = "branches"
	KeywordTags     = "tags"
)

// Build is a job selected for a commit, ready to be persisted.
type Build struct {
	Name       string
	Stage      string
	StageIndex int
	When       models.When
}

// Evaluator selects the stored job definitions of a project that
// apply to a commit.
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Evaluate returns the builds for commit ordered by stage. An empty
// result means the configuration produces no jobs for the ref.
func (e *Evaluator) Evaluate(ctx context.Context, project *models.Project, commit *repository.Commit) ([]*Build, error) {
	var defs models.JobDefinitions

	err := e.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("stage_index asc").
		Order("name asc").
		Find(&defs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load job definitions")
	}

	builds := make([]*Build, 0, len(defs))
	for _, def := range defs {
		if !Applies(def, commit) {
			continue
		}

		builds = append(builds, &Build{
			Name:       def.Name,
			Stage:      def.Stage,
			StageIndex: def.StageIndex,
			When:       def.When,
		})
	}

	return builds, nil
}

// Applies reports whether def runs for commit: an empty only list
// matches every ref and any except match excludes it.
func Applies(def *models.JobDefinition, commit *repository.Commit) bool {
	if len(def.Only) > 0 && !matchAny(def.Only, commit) {
		return false
	}

	return !matchAny(def.Except, commit)
}

func matchAny(patterns []string, commit *repository.Commit) bool {
	for _, pattern := range patterns {
		switch pattern {
		case KeywordBranches:
			if !commit.Tag {
				return true
			}
			continue
		case KeywordTags:
			if commit.Tag {
				return true
			}
			continue
		}

		if ok, err := doublestar.Match(pattern, commit.Ref); err == nil && ok {
			return true
		}
	}

	return false
}
