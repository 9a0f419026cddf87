package admin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type AdminTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func (s *AdminTestSuite) SetupTest() {
	s.db = testutil.OpenTestDB(s.T())
	s.ctx = context.Background()
	conn = func() *gorm.DB { return s.db }
	output = "text"
}

func (s *AdminTestSuite) TearDownTest() {
	testutil.CloseDB(s.db)
}

func (s *AdminTestSuite) TestCreateUserAndProject() {
	user, err := createUser(s.ctx, s.db, "  alice ")
	s.Require().NoError(err)
	s.Equal("alice", user.Username)

	_, err = createUser(s.ctx, s.db, "alice")
	s.Error(err)

	_, err = createUser(s.ctx, s.db, " ")
	s.Error(err)

	project, err := createProject(s.ctx, s.db, "web", "web.git")
	s.Require().NoError(err)
	s.Equal("web.git", project.RepositoryPath)
}

func (s *AdminTestSuite) TestAddMemberReplacesLevel() {
	testutil.CreateUser(s.T(), s.db, "alice")
	testutil.CreateProject(s.T(), s.db, "web", "web.git")

	_, err := addMember(s.ctx, s.db, "web", "alice", "reporter")
	s.Require().NoError(err)

	_, err = addMember(s.ctx, s.db, "web", "alice", "maintainer")
	s.Require().NoError(err)

	var members []models.ProjectMember
	s.Require().NoError(s.db.Find(&members).Error)
	s.Require().Len(members, 1)
	s.Equal(models.AccessMaintainer, members[0].AccessLevel)
}

func (s *AdminTestSuite) TestAddMemberRejectsBadInput() {
	testutil.CreateUser(s.T(), s.db, "alice")
	testutil.CreateProject(s.T(), s.db, "web", "web.git")

	_, err := addMember(s.ctx, s.db, "web", "alice", "admin")
	s.ErrorContains(err, "invalid access level")

	_, err = addMember(s.ctx, s.db, "web", "alice", "none")
	s.ErrorContains(err, "invalid access level")

	_, err = addMember(s.ctx, s.db, "api", "alice", "developer")
	s.ErrorContains(err, `project "api" not found`)

	_, err = addMember(s.ctx, s.db, "web", "bob", "developer")
	s.ErrorContains(err, `user "bob" not found`)
}

func (s *AdminTestSuite) TestDefineJob() {
	testutil.CreateProject(s.T(), s.db, "web", "web.git")

	def, err := defineJob(s.ctx, s.db, "web", &models.JobDefinition{
		Name:       "deploy",
		Stage:      "deploy",
		StageIndex: 2,
		Only:       []string{"tags"},
	})
	s.Require().NoError(err)
	s.Equal(models.WhenOnSuccess, def.When)

	stored := &models.JobDefinition{}
	s.Require().NoError(s.db.First(stored, "id = ?", def.ID).Error)
	s.Equal([]string{"tags"}, []string(stored.Only))

	_, err = defineJob(s.ctx, s.db, "web", &models.JobDefinition{Name: "lint", Stage: "test", When: "always"})
	s.ErrorContains(err, "invalid when")

	_, err = defineJob(s.ctx, s.db, "web", &models.JobDefinition{Name: "lint"})
	s.Error(err)
}

func (s *AdminTestSuite) TestCreateSchedule() {
	testutil.CreateUser(s.T(), s.db, "alice")
	testutil.CreateProject(s.T(), s.db, "web", "web.git")

	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	sched, err := createSchedule(s.ctx, s.db, "web", "alice", &models.PipelineSchedule{
		Ref:  "master",
		Cron: "0 * * * *",
	}, now)
	s.Require().NoError(err)
	s.True(sched.Active)
	s.Require().NotNil(sched.NextRunAt)
	s.Equal(time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), *sched.NextRunAt)

	_, err = createSchedule(s.ctx, s.db, "web", "alice", &models.PipelineSchedule{
		Ref:  "master",
		Cron: "not a cron",
	}, now)
	s.Error(err)

	_, err = createSchedule(s.ctx, s.db, "web", "alice", &models.PipelineSchedule{
		Ref:      "master",
		Cron:     "0 * * * *",
		Timezone: "Mars/Olympus",
	}, now)
	s.Error(err)
}

func (s *AdminTestSuite) TestUserCommandYAMLOutput() {
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"user", "carol", "--output", "yaml"})

	s.Require().NoError(Cmd.Execute())
	s.Contains(out.String(), "username: carol")

	testutil.AssertCount(s.T(), s.db, &models.User{}, 1)
}

func (s *AdminTestSuite) TestProjectCommandTextOutput() {
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"project", "docs", "--repository", "docs.git", "--output", "text"})

	s.Require().NoError(Cmd.Execute())
	s.Contains(out.String(), "Created project docs")
}

func TestAdminTestSuite(t *testing.T) {
	suite.Run(t, new(AdminTestSuite))
}
