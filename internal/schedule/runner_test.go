package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/ciconfig"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/repository"
	"github.com/caesium-cloud/relay/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RunnerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	project *models.Project
	owner   *models.User
	runner  *Runner
	now     time.Time
}

func (s *RunnerTestSuite) SetupTest() {
	s.db = testutil.OpenTestDB(s.T())

	dir, _ := testutil.InitRepo(s.T())
	s.project = testutil.CreateProject(s.T(), s.db, "relay", dir)
	s.owner = testutil.CreateUser(s.T(), s.db, "owner")
	testutil.DefineJob(s.T(), s.db, s.project, "nightly", "test", 0)

	s.now = time.Date(2024, 3, 1, 10, 17, 0, 0, time.UTC)

	dispatcher := dispatch.New(s.db, repository.NewResolver(""), ciconfig.NewEvaluator(s.db))
	s.runner = NewRunner(s.db, access.New(s.db), dispatcher, time.Minute)
	s.runner.now = func() time.Time { return s.now }
}

func (s *RunnerTestSuite) schedule(active bool, nextRunAt *time.Time) *models.PipelineSchedule {
	sched := &models.PipelineSchedule{
		ID:          uuid.New(),
		ProjectID:   s.project.ID,
		OwnerID:     &s.owner.ID,
		Description: "nightly",
		Ref:         "master",
		Cron:        "0 * * * *",
		Active:      active,
		NextRunAt:   nextRunAt,
	}
	s.Require().NoError(s.db.Create(sched).Error)
	return sched
}

func (s *RunnerTestSuite) reload(sched *models.PipelineSchedule) *models.PipelineSchedule {
	var out models.PipelineSchedule
	s.Require().NoError(s.db.First(&out, "id = ?", sched.ID).Error)
	return &out
}

func (s *RunnerTestSuite) TestDueScheduleCreatesPipeline() {
	testutil.AddMember(s.T(), s.db, s.project, s.owner, models.AccessDeveloper)
	due := s.now.Add(-time.Minute)
	sched := s.schedule(true, &due)

	s.Require().NoError(s.runner.Tick(context.Background()))

	var pipeline models.Pipeline
	s.Require().NoError(s.db.First(&pipeline).Error)
	s.Equal(models.PipelineSourceSchedule, pipeline.Source)
	s.Equal("master", pipeline.Ref)
	s.Require().NotNil(pipeline.UserID)
	s.Equal(s.owner.ID, *pipeline.UserID)

	next := s.reload(sched).NextRunAt
	s.Require().NotNil(next)
	s.True(next.Equal(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)), next.String())
}

func (s *RunnerTestSuite) TestOwnerWithoutPermission() {
	testutil.AddMember(s.T(), s.db, s.project, s.owner, models.AccessReporter)
	due := s.now.Add(-time.Minute)
	sched := s.schedule(true, &due)

	s.Require().NoError(s.runner.Tick(context.Background()))

	testutil.AssertCount(s.T(), s.db, &models.Pipeline{}, 0)
	s.True(s.reload(sched).NextRunAt.After(s.now))
}

func (s *RunnerTestSuite) TestUnplannedScheduleIsPlannedWithoutFiring() {
	testutil.AddMember(s.T(), s.db, s.project, s.owner, models.AccessDeveloper)
	sched := s.schedule(true, nil)

	s.Require().NoError(s.runner.Tick(context.Background()))

	testutil.AssertCount(s.T(), s.db, &models.Pipeline{}, 0)
	s.NotNil(s.reload(sched).NextRunAt)
}

func (s *RunnerTestSuite) TestInactiveAndFutureSchedulesIgnored() {
	testutil.AddMember(s.T(), s.db, s.project, s.owner, models.AccessDeveloper)
	past := s.now.Add(-time.Hour)
	future := s.now.Add(time.Hour)

	s.schedule(false, &past)
	s.schedule(true, &future)

	s.Require().NoError(s.runner.Tick(context.Background()))
	testutil.AssertCount(s.T(), s.db, &models.Pipeline{}, 0)
}

func (s *RunnerTestSuite) TestInvalidCronDeactivates() {
	due := s.now.Add(-time.Minute)
	sched := s.schedule(true, &due)
	s.Require().NoError(s.db.Model(sched).Update("cron", "bogus").Error)

	s.Require().NoError(s.runner.Tick(context.Background()))
	s.False(s.reload(sched).Active)
}

func (s *RunnerTestSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.runner.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("runner did not stop")
	}
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}
