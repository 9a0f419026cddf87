package testutil

import (
	"strings"
	"testing"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB returns an in-memory sqlite DB with migrations applied.
func OpenTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	// a single connection serializes transactions, which sqlite
	// requires for concurrent writers on a shared memory database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models.All...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	tb.Cleanup(func() { CloseDB(db) })

	return db
}

// CloseDB closes the underlying sql.DB if available.
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// AssertCount asserts a count for the provided model using the supplied DB.
func AssertCount(tb testing.TB, db *gorm.DB, model any, expected int64) {
	tb.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	if count != expected {
		tb.Fatalf("expected %d records, got %d", expected, count)
	}
}

// CreateUser persists a user with the given name.
func CreateUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()

	user := &models.User{ID: uuid.New(), Username: username}
	mustCreate(tb, db, user)
	return user
}

// CreateProject persists a project backed by the repository at repoPath.
func CreateProject(tb testing.TB, db *gorm.DB, name, repoPath string) *models.Project {
	tb.Helper()

	project := &models.Project{ID: uuid.New(), Name: name, RepositoryPath: repoPath}
	mustCreate(tb, db, project)
	return project
}

// AddMember grants user the access level on project.
func AddMember(tb testing.TB, db *gorm.DB, project *models.Project, user *models.User, level models.AccessLevel) {
	tb.Helper()

	mustCreate(tb, db, &models.ProjectMember{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		UserID:      user.ID,
		AccessLevel: level,
	})
}

// CreateTrigger persists an ownerless trigger with a fixed token.
func CreateTrigger(tb testing.TB, db *gorm.DB, project *models.Project, token string) *models.Trigger {
	tb.Helper()

	trigger := &models.Trigger{
		ID:          uuid.New(),
		Token:       token,
		ProjectID:   project.ID,
		Description: "trigger " + token,
	}
	mustCreate(tb, db, trigger)
	return trigger
}

// CreateJob persists a job inside a fresh pipeline of project. A
// nil user creates an unowned job.
func CreateJob(tb testing.TB, db *gorm.DB, project *models.Project, user *models.User, status models.JobStatus) *models.Job {
	tb.Helper()

	var userID *uuid.UUID
	if user != nil {
		userID = &user.ID
	}

	pipeline := &models.Pipeline{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Ref:       "master",
		SHA:       strings.Repeat("a", 40),
		Source:    models.PipelineSourcePush,
		Status:    models.PipelineStatusRunning,
		UserID:    userID,
	}
	mustCreate(tb, db, pipeline)

	job := &models.Job{
		ID:         uuid.New(),
		Token:      "job-" + uuid.NewString(),
		Name:       "deploy",
		Stage:      "deploy",
		Status:     status,
		ProjectID:  project.ID,
		PipelineID: pipeline.ID,
		UserID:     userID,
	}
	mustCreate(tb, db, job)
	return job
}

// DefineJob adds a job definition to project's CI configuration.
func DefineJob(tb testing.TB, db *gorm.DB, project *models.Project, name, stage string, stageIndex int, only ...string) *models.JobDefinition {
	tb.Helper()

	def := &models.JobDefinition{
		ID:         uuid.New(),
		ProjectID:  project.ID,
		Name:       name,
		Stage:      stage,
		StageIndex: stageIndex,
		When:       models.WhenOnSuccess,
	}
	if len(only) > 0 {
		def.Only = only
	}
	mustCreate(tb, db, def)
	return def
}

func mustCreate(tb testing.TB, db *gorm.DB, value any) {
	tb.Helper()

	if err := db.Create(value).Error; err != nil {
		tb.Fatalf("create %T: %v", value, err)
	}
}
