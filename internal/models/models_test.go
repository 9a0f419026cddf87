package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessLevelNames(t *testing.T) {
	for _, level := range []AccessLevel{
		AccessNone,
		AccessGuest,
		AccessReporter,
		AccessDeveloper,
		AccessMaintainer,
		AccessOwner,
	} {
		parsed, ok := ParseAccessLevel(level.String())
		assert.True(t, ok, level.String())
		assert.Equal(t, level, parsed)
	}

	assert.Equal(t, "unknown", AccessLevel(35).String())

	_, ok := ParseAccessLevel("admin")
	assert.False(t, ok)
}

func TestAccessLevelOrdering(t *testing.T) {
	assert.Less(t, int(AccessGuest), int(AccessReporter))
	assert.Less(t, int(AccessReporter), int(AccessDeveloper))
	assert.Less(t, int(AccessDeveloper), int(AccessMaintainer))
	assert.Less(t, int(AccessMaintainer), int(AccessOwner))
}

func TestJobRunning(t *testing.T) {
	var nilJob *Job
	assert.False(t, nilJob.Running())
	assert.True(t, (&Job{Status: JobStatusRunning}).Running())

	for _, status := range []JobStatus{
		JobStatusCreated,
		JobStatusPending,
		JobStatusSuccess,
		JobStatusFailed,
		JobStatusCanceled,
		JobStatusSkipped,
		JobStatusManual,
	} {
		assert.False(t, (&Job{Status: status}).Running(), string(status))
	}
}
