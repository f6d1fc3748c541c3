package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cognigen/cognigen-backend/internal/data/repos/testutil"
	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
)

func legacyPath(owner uuid.UUID, course string) *types.LearningPath {
	p := testutil.NewPath(owner, course, 1, 2)
	p.Topics[0].Submodules[1] = types.Submodule{
		ID:             "legacy",
		Title:          "Legacy",
		ContentVersion: types.ContentVersionLegacy,
		Completed:      true,
		Legacy: &types.LegacyContent{
			Explanation:       "Old explanation",
			RealWorldExamples: []string{"Bridges"},
			ProjectSuggestion: "Build one",
		},
	}
	return p
}

func TestMigrateAllToCells(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	legacyA := env.seed(t, legacyPath(owner, "Civil"))
	legacyB := env.seed(t, legacyPath(uuid.New(), "Mechanical"))
	current := env.seed(t, testutil.NewPath(owner, "Electrical", 1, 1))
	ctx := context.Background()

	dry, err := env.uc.MigrateAllToCells(ctx, MigrateCellsInput{DryRun: true, BatchSize: 2, Concurrency: 2})
	require.NoError(t, err)
	require.Equal(t, 3, dry.Scanned)
	require.Equal(t, 2, dry.Changed)
	require.Equal(t, 2, dry.Submodules)
	require.True(t, dry.DryRun)
	require.NotNil(t, env.stored(t, legacyA).Topics[0].Submodules[1].Legacy)

	report, err := env.uc.MigrateAllToCells(ctx, MigrateCellsInput{BatchSize: 2, Concurrency: 2})
	require.NoError(t, err)
	require.Equal(t, 3, report.Scanned)
	require.Equal(t, 2, report.Changed)
	require.Zero(t, report.Failed)

	for _, p := range []*types.LearningPath{legacyA, legacyB} {
		sub := env.stored(t, p).Topics[0].Submodules[1]
		require.Equal(t, types.ContentVersionCells, sub.ContentVersion)
		require.Nil(t, sub.Legacy)
		require.Len(t, sub.Cells, 2)
		require.True(t, sub.Completed)
	}
	require.Equal(t, current.Title, env.stored(t, current).Title)

	again, err := env.uc.MigrateAllToCells(ctx, MigrateCellsInput{})
	require.NoError(t, err)
	require.Equal(t, 3, again.Scanned)
	require.Zero(t, again.Changed)
}

func TestMigrateAllToCells_CanceledContext(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t, legacyPath(uuid.New(), "Civil"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.uc.MigrateAllToCells(ctx, MigrateCellsInput{})
	require.Error(t, err)
	require.NotNil(t, env.stored(t, p).Topics[0].Submodules[1].Legacy)
}
