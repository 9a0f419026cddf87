package schedule

import (
	"testing"
	"time"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	after := time.Date(2024, 3, 1, 10, 17, 0, 0, time.UTC)

	next, err := NextRun(&models.PipelineSchedule{Cron: "*/15 * * * *"}, after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), next)
}

func TestNextRunHonoursTimezone(t *testing.T) {
	after := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	next, err := NextRun(&models.PipelineSchedule{Cron: "0 9 * * *", Timezone: "Asia/Tokyo"}, after)
	require.NoError(t, err)

	// 09:00 JST is 00:00 UTC
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), next)
}

func TestNextRunDescriptor(t *testing.T) {
	after := time.Date(2024, 3, 1, 10, 17, 0, 0, time.UTC)

	next, err := NextRun(&models.PipelineSchedule{Cron: "@daily"}, after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), next)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("0 0 * * *", ""))
	assert.NoError(t, Validate("0 0 * * *", "UTC"))
	assert.Error(t, Validate("", ""))
	assert.Error(t, Validate("not a cron", ""))
	assert.Error(t, Validate("0 0 * * *", "Mars/Olympus"))
}
