package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	dir     string
	head    string
	project *models.Project
}

func (s *RepositoryTestSuite) SetupTest() {
	s.dir, s.head = testutil.InitRepo(s.T(), "v.1-branch", "feature/login")
	testutil.CreateTag(s.T(), s.dir, "v1.0.0")
	s.project = &models.Project{ID: uuid.New(), RepositoryPath: s.dir}
}

func (s *RepositoryTestSuite) TestResolveBranch() {
	for _, ref := range []string{"master", "refs/heads/master", "v.1-branch", "feature/login"} {
		commit, err := NewResolver("").Resolve(context.Background(), s.project, ref)
		s.Require().NoError(err, ref)
		s.Equal(s.head, commit.SHA)
		s.False(commit.Tag)
	}
}

func (s *RepositoryTestSuite) TestResolveStripsQualifiedPrefix() {
	commit, err := NewResolver("").Resolve(context.Background(), s.project, "refs/heads/v.1-branch")
	s.Require().NoError(err)
	s.Equal("v.1-branch", commit.Ref)
}

func (s *RepositoryTestSuite) TestResolveTag() {
	for _, ref := range []string{"v1.0.0", "refs/tags/v1.0.0"} {
		commit, err := NewResolver("").Resolve(context.Background(), s.project, ref)
		s.Require().NoError(err, ref)
		s.Equal(s.head, commit.SHA)
		s.Equal("v1.0.0", commit.Ref)
		s.True(commit.Tag)
	}
}

func (s *RepositoryTestSuite) TestResolveMissingRef() {
	for _, ref := range []string{"other-branch", "refs/heads/other-branch", "refs/tags/master", ""} {
		_, err := NewResolver("").Resolve(context.Background(), s.project, ref)
		s.ErrorIs(err, ErrRefNotFound, ref)
	}
}

func (s *RepositoryTestSuite) TestResolveWithoutRepository() {
	_, err := NewResolver("").Resolve(context.Background(), &models.Project{ID: uuid.New()}, "master")
	s.ErrorIs(err, ErrRefNotFound)
}

func (s *RepositoryTestSuite) TestResolveRelativeToRoot() {
	project := &models.Project{ID: uuid.New(), RepositoryPath: filepath.Base(s.dir)}

	commit, err := NewResolver(filepath.Dir(s.dir)).Resolve(context.Background(), project, "master")
	s.Require().NoError(err)
	s.Equal(s.head, commit.SHA)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
