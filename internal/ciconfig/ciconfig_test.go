package ciconfig

import (
	"context"
	"testing"

	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/internal/repository"
	"github.com/caesium-cloud/relay/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestEvaluateOrdersByStage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	project := testutil.CreateProject(t, db, "relay", "")

	testutil.DefineJob(t, db, project, "deploy", "deploy", 2)
	testutil.DefineJob(t, db, project, "rspec", "test", 1)
	testutil.DefineJob(t, db, project, "compile", "build", 0)
	testutil.DefineJob(t, db, project, "lint", "test", 1)

	builds, err := NewEvaluator(db).Evaluate(context.Background(), project, &repository.Commit{Ref: "master"})
	require.NoError(t, err)

	var names []string
	for _, b := range builds {
		names = append(names, b.Name)
	}

	if diff := cmp.Diff([]string{"compile", "lint", "rspec", "deploy"}, names); diff != "" {
		t.Fatalf("unexpected build order (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.WhenOnSuccess, builds[0].When)
}

func TestEvaluateFiltersByRef(t *testing.T) {
	db := testutil.OpenTestDB(t)
	project := testutil.CreateProject(t, db, "relay", "")

	testutil.DefineJob(t, db, project, "always", "test", 0)
	testutil.DefineJob(t, db, project, "release", "deploy", 1, "v*", "release/**")

	ctx := context.Background()

	builds, err := NewEvaluator(db).Evaluate(ctx, project, &repository.Commit{Ref: "master"})
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "always", builds[0].Name)

	builds, err = NewEvaluator(db).Evaluate(ctx, project, &repository.Commit{Ref: "release/2024/q1"})
	require.NoError(t, err)
	assert.Len(t, builds, 2)
}

func TestEvaluateOtherProjectIgnored(t *testing.T) {
	db := testutil.OpenTestDB(t)
	project := testutil.CreateProject(t, db, "relay", "")
	other := testutil.CreateProject(t, db, "other", "")

	testutil.DefineJob(t, db, other, "rspec", "test", 0)

	builds, err := NewEvaluator(db).Evaluate(context.Background(), project, &repository.Commit{Ref: "master"})
	require.NoError(t, err)
	assert.Empty(t, builds)
}

func TestApplies(t *testing.T) {
	branch := &repository.Commit{Ref: "feature/login"}
	tag := &repository.Commit{Ref: "v1.2.0", Tag: true}

	cases := []struct {
		name   string
		def    *models.JobDefinition
		commit *repository.Commit
		want   bool
	}{
		{"no filters", &models.JobDefinition{}, branch, true},
		{"only glob match", &models.JobDefinition{Only: datatypes.JSONSlice[string]{"feature/*"}}, branch, true},
		{"only glob miss", &models.JobDefinition{Only: datatypes.JSONSlice[string]{"master"}}, branch, false},
		{"only branches keyword", &models.JobDefinition{Only: datatypes.JSONSlice[string]{KeywordBranches}}, tag, false},
		{"only tags keyword", &models.JobDefinition{Only: datatypes.JSONSlice[string]{KeywordTags}}, tag, true},
		{"except match", &models.JobDefinition{Except: datatypes.JSONSlice[string]{"feature/**"}}, branch, false},
		{"except tags keyword", &models.JobDefinition{Except: datatypes.JSONSlice[string]{KeywordTags}}, branch, true},
		{"only and except", &models.JobDefinition{
			Only:   datatypes.JSONSlice[string]{"v*"},
			Except: datatypes.JSONSlice[string]{"v1.*"},
		}, tag, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Applies(tc.def, tc.commit))
		})
	}
}
