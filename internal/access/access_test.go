package access

import (
	"context"
	"testing"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	project := testutil.CreateProject(t, db, "app", "")
	dev := testutil.CreateUser(t, db, "dev")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.AddMember(t, db, project, dev, models.AccessDeveloper)

	o := New(db)

	level, err := o.Level(ctx, project.ID, dev.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccessDeveloper, level)

	level, err = o.Level(ctx, project.ID, stranger.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccessNone, level)
}

func TestAtLeast(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	project := testutil.CreateProject(t, db, "app", "")
	reporter := testutil.CreateUser(t, db, "reporter")
	testutil.AddMember(t, db, project, reporter, models.AccessReporter)

	o := New(db)

	ok, err := AtLeast(ctx, o, project.ID, &reporter.ID, models.AccessReporter)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = AtLeast(ctx, o, project.ID, &reporter.ID, models.AccessDeveloper)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = AtLeast(ctx, o, project.ID, nil, models.AccessGuest)
	require.NoError(t, err)
	require.False(t, ok)

	other := uuid.New()
	ok, err = AtLeast(ctx, o, other, &reporter.ID, models.AccessGuest)
	require.NoError(t, err)
	require.False(t, ok)
}
