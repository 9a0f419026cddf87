package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type EnvTestSuite struct {
	suite.Suite
}

func (s *EnvTestSuite) TestDefaults() {
	s.Require().NoError(Process())

	vars := Variables()
	s.Equal("info", vars.LogLevel)
	s.Equal(8080, vars.Port)
	s.Equal("sqlite", vars.DatabaseType)
	s.Equal("relay.db", vars.DatabaseDSN)
	s.Equal(24*time.Hour, vars.AuthTokenTTL)
	s.Equal(time.Minute, vars.SchedulerInterval)
	s.Equal("http://localhost:8080", vars.Server)
}

func (s *EnvTestSuite) TestOverrides() {
	s.T().Setenv("RELAY_PORT", "9090")
	s.T().Setenv("RELAY_SCHEDULER_INTERVAL", "5s")
	s.T().Setenv("RELAY_REPOSITORY_ROOT", "/srv/git")
	s.T().Setenv("RELAY_AUTH_SECRET", "s3cret")

	s.Require().NoError(Process())

	vars := Variables()
	s.Equal(9090, vars.Port)
	s.Equal(5*time.Second, vars.SchedulerInterval)
	s.Equal("/srv/git", vars.RepositoryRoot)
	s.Equal("s3cret", vars.AuthSecret)
}

func (s *EnvTestSuite) TestRejectsMalformedValues() {
	for key, value := range map[string]string{
		"RELAY_PORT":           "not_a_port",
		"RELAY_AUTH_TOKEN_TTL": "forever",
		"RELAY_LOG_LEVEL":      "bogus",
	} {
		s.Run(key, func() {
			s.T().Setenv(key, value)
			s.Error(Process())
		})
	}
}

func TestEnvTestSuite(t *testing.T) {
	suite.Run(t, new(EnvTestSuite))
}
