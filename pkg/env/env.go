package env

import (
	"time"

	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for relay.
func Process() error {
	if err := envconfig.Process("relay", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by relay.
type Environment struct {
	LogLevel          string        `default:"info" split_words:"true"`
	Port              int           `default:"8080" split_words:"true"`
	DatabaseType      string        `default:"sqlite" split_words:"true"`
	DatabaseDSN       string        `default:"relay.db" split_words:"true"`
	RepositoryRoot    string        `default:"/var/lib/relay/repositories" split_words:"true"`
	AuthSecret        string        `default:"" split_words:"true"`
	AuthTokenTTL      time.Duration `default:"24h" split_words:"true"`
	SchedulerInterval time.Duration `default:"1m" split_words:"true"`
	ShutdownTimeout   time.Duration `default:"30s" split_words:"true"`
	Server            string        `default:"http://localhost:8080" split_words:"true"`
}
