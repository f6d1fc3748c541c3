package learning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cognigen/cognigen-backend/internal/data/repos"
	"github.com/cognigen/cognigen-backend/internal/data/repos/testutil"
	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
)

func algebraInput(user uuid.UUID) GeneratePathInput {
	return GeneratePathInput{
		UserID:                 user,
		CourseName:             "  Algebra ",
		ExperienceLevel:        types.ExperienceBeginner,
		Goal:                   types.GoalMastery,
		PreferredLearningStyle: types.StylePractical,
		TimeAvailability:       TimeAvailabilityInput{PerDayHours: 2},
		CustomTopics:           []string{"Linear equations", " ", "Quadratics"},
	}
}

func TestGeneratePath_Algebra(t *testing.T) {
	env := newTestEnv(t)
	env.ai.path = func(req aigen.PathRequest) (*aigen.PathResponse, error) {
		return &aigen.PathResponse{
			Title: "Algebra from Scratch",
			Topics: []aigen.GeneratedTopic{
				{ID: "t-linear", Name: "Linear Equations", Difficulty: "easy", EstimatedTimeHours: 2, Submodules: []aigen.SubmoduleOutline{
					{ID: "s-1", Title: "One variable", Summary: "Solve for x"},
					{ID: "s-2", Title: "Two variables", Summary: "Systems"},
				}},
				{Name: "Quadratics", Difficulty: "extreme", Submodules: []aigen.SubmoduleOutline{
					{Title: "Factoring"},
				}},
			},
		}, nil
	}

	user := uuid.New()
	path, err := env.uc.GeneratePath(context.Background(), algebraInput(user))
	require.NoError(t, err)

	require.Equal(t, "Algebra from Scratch", path.Title)
	require.Equal(t, "Algebra", path.CourseName)
	require.Equal(t, types.PathStatusActive, path.Status)
	require.Equal(t, 0, path.OverallProgress)
	require.Equal(t, []string{"Linear equations", "Quadratics"}, []string(path.CustomTopics))
	require.Len(t, path.Topics, 2)

	linear := path.Topics[0]
	require.Equal(t, "t-linear", linear.ID)
	require.Equal(t, 120, linear.EstimatedTimeMinutes)
	require.Len(t, linear.Submodules, 2)
	for _, s := range linear.Submodules {
		require.Equal(t, types.ContentVersionCells, s.ContentVersion)
		require.Empty(t, s.Cells)
		require.Empty(t, s.MiniQuiz)
		require.False(t, s.Completed)
	}

	quad := path.Topics[1]
	require.NotEmpty(t, quad.ID)
	require.Equal(t, 60, quad.EstimatedTimeMinutes)
	require.Equal(t, types.DefaultTopicDifficulty, quad.Difficulty)
	require.NotEmpty(t, quad.Submodules[0].ID)

	require.Len(t, env.ai.pathReqs, 1)
	req := env.ai.pathReqs[0]
	require.Equal(t, user.String(), req.UserID)
	require.Equal(t, "Algebra", req.CourseName)
	require.Equal(t, 2, req.TimeAvailability.PerDayHours)

	stored := env.stored(t, path)
	require.Equal(t, path.Title, stored.Title)
	require.Len(t, stored.Topics, 2)
}

func TestGeneratePath_ThreeByTwoThroughCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.ai.path = func(req aigen.PathRequest) (*aigen.PathResponse, error) {
		resp := &aigen.PathResponse{Title: "Algebra"}
		for i := 1; i <= 3; i++ {
			resp.Topics = append(resp.Topics, aigen.GeneratedTopic{
				ID:         fmt.Sprintf("t%d", i),
				Name:       fmt.Sprintf("Topic %d", i),
				Difficulty: "medium",
				Submodules: []aigen.SubmoduleOutline{
					{ID: fmt.Sprintf("t%d-a", i), Title: "Part A"},
					{ID: fmt.Sprintf("t%d-b", i), Title: "Part B"},
				},
			})
		}
		return resp, nil
	}

	owner := uuid.New()
	path, err := env.uc.GeneratePath(context.Background(), algebraInput(owner))
	require.NoError(t, err)
	require.Equal(t, types.PathStatusActive, path.Status)
	require.Equal(t, 0, path.OverallProgress)
	require.Len(t, path.Topics, 3)
	for _, topic := range path.Topics {
		require.Len(t, topic.Submodules, 2)
		require.Equal(t, 0, topic.CompletedSubmodules)
		require.Equal(t, 0, topic.Progress)
	}

	require.Equal(t, []int{17, 33, 50, 67, 83, 100}, completeAll(t, env, owner, path))

	stored := env.stored(t, path)
	require.Equal(t, types.PathStatusCompleted, stored.Status)
	require.Equal(t, 100, stored.OverallProgress)
	for _, topic := range stored.Topics {
		require.Equal(t, 2, topic.CompletedSubmodules)
		require.Equal(t, 100, topic.Progress)
	}
}

func TestGeneratePath_BiologyTimeoutFallsBackToDraft(t *testing.T) {
	env := newTestEnv(t)
	env.ai.path = func(req aigen.PathRequest) (*aigen.PathResponse, error) {
		return nil, fmt.Errorf("post: %w", context.DeadlineExceeded)
	}

	in := algebraInput(uuid.New())
	in.CourseName = "Biology"
	path, err := env.uc.GeneratePath(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, "Biology Learning Path (Partial)", path.Title)
	require.Equal(t, types.PathStatusDraft, path.Status)
	require.Empty(t, path.Topics)

	stored := env.stored(t, path)
	require.Equal(t, "Biology Learning Path (Partial)", stored.Title)
	require.Equal(t, types.PathStatusDraft, stored.Status)
}

func TestGeneratePath_DefaultsAndEmptyCurriculum(t *testing.T) {
	env := newTestEnv(t)
	env.ai.path = func(req aigen.PathRequest) (*aigen.PathResponse, error) {
		return &aigen.PathResponse{}, nil
	}

	in := algebraInput(uuid.New())
	in.CourseName = "Chemistry"
	in.TimeAvailability.PerDayHours = 0
	path, err := env.uc.GeneratePath(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "Chemistry Learning Path", path.Title)
	require.Equal(t, types.PathStatusDraft, path.Status)
	require.Equal(t, 1, path.TimeAvailability.PerDayHours)
}

func TestGeneratePath_RejectsInvalidProfile(t *testing.T) {
	cases := map[string]func(*GeneratePathInput){
		"blank course":   func(in *GeneratePathInput) { in.CourseName = "   " },
		"unknown level":  func(in *GeneratePathInput) { in.ExperienceLevel = "expert" },
		"unknown goal":   func(in *GeneratePathInput) { in.Goal = "fun" },
		"missing style":  func(in *GeneratePathInput) { in.PreferredLearningStyle = "" },
		"too many hours": func(in *GeneratePathInput) { in.TimeAvailability.PerDayHours = 11 },
		"negative hours": func(in *GeneratePathInput) { in.TimeAvailability.PerDayHours = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			in := algebraInput(uuid.New())
			mutate(&in)
			_, err := env.uc.GeneratePath(context.Background(), in)
			require.ErrorIs(t, err, apierr.ErrInvalidArgument)
			require.Empty(t, env.ai.pathReqs)
		})
	}
}

func TestPathOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	stranger := uuid.New()
	p := env.seed(t, testutil.NewPath(owner, "Physics", 1, 2))
	ctx := context.Background()

	_, err := env.uc.GetPath(ctx, stranger, p.ID)
	require.ErrorIs(t, err, apierr.ErrNotFound)

	title := "stolen"
	_, err = env.uc.UpdatePath(ctx, UpdatePathInput{UserID: stranger, PathID: p.ID, Title: &title})
	require.ErrorIs(t, err, apierr.ErrNotFound)

	_, err = env.uc.MarkSubmoduleComplete(ctx, stranger, p.ID, "topic-1", "topic-1-sub-1")
	require.ErrorIs(t, err, apierr.ErrNotFound)

	err = env.uc.DeletePath(ctx, stranger, p.ID)
	require.ErrorIs(t, err, apierr.ErrNotFound)

	list, err := env.uc.ListPaths(ctx, stranger)
	require.NoError(t, err)
	require.Empty(t, list)

	stored := env.stored(t, p)
	require.Equal(t, "Physics Learning Path", stored.Title)
	require.False(t, stored.Topics[0].Submodules[0].Completed)
}

func TestUpdatePath(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	p := env.seed(t, testutil.NewPath(owner, "Physics", 1, 1))
	ctx := context.Background()

	title := " Mechanics "
	hours := 4
	got, err := env.uc.UpdatePath(ctx, UpdatePathInput{
		UserID:           owner,
		PathID:           p.ID,
		Title:            &title,
		TimeAvailability: &TimeAvailabilityPatch{PerDayHours: &hours},
	})
	require.NoError(t, err)
	require.Equal(t, "Mechanics", got.Title)
	require.Equal(t, 4, got.TimeAvailability.PerDayHours)

	stored := env.stored(t, p)
	require.Equal(t, "Mechanics", stored.Title)
	require.Equal(t, p.CourseName, stored.CourseName)

	bad := 0
	_, err = env.uc.UpdatePath(ctx, UpdatePathInput{UserID: owner, PathID: p.ID, TimeAvailability: &TimeAvailabilityPatch{PerDayHours: &bad}})
	require.ErrorIs(t, err, apierr.ErrInvalidArgument)

	blank := "  "
	_, err = env.uc.UpdatePath(ctx, UpdatePathInput{UserID: owner, PathID: p.ID, Title: &blank})
	require.ErrorIs(t, err, apierr.ErrInvalidArgument)
}

func TestListAndDeletePaths(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	ctx := context.Background()
	a := env.seed(t, testutil.NewPath(owner, "Art", 1, 1))
	b := env.seed(t, testutil.NewPath(owner, "Botany", 2, 1))

	list, err := env.uc.ListPaths(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, env.uc.DeletePath(ctx, owner, a.ID))
	err = env.uc.DeletePath(ctx, owner, a.ID)
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	require.Equal(t, http.StatusNotFound, ae.Status)

	list, err = env.uc.ListPaths(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, b.ID, list[0].ID)
}

func TestGetPath_MigratesLegacySubmodulesInMemory(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	p := testutil.NewPath(owner, "History", 1, 1)
	p.Topics[0].Submodules[0] = types.Submodule{
		ID:             "legacy",
		Title:          "Old",
		ContentVersion: types.ContentVersionLegacy,
		Legacy: &types.LegacyContent{
			Explanation:     "Rome was not built in a day.",
			StepByStepGuide: []string{"Read", "Recall"},
		},
	}
	env.seed(t, p)

	got, err := env.uc.GetPath(context.Background(), owner, p.ID)
	require.NoError(t, err)
	sub := got.Topics[0].Submodules[0]
	require.Equal(t, types.ContentVersionCells, sub.ContentVersion)
	require.Nil(t, sub.Legacy)
	require.Len(t, sub.Cells, 2)
	require.Equal(t, types.CellExplanation, sub.Cells[0].Type)
	require.Equal(t, types.CellSteps, sub.Cells[1].Type)

	// Reads do not write the migration back.
	stored := env.stored(t, p)
	require.NotNil(t, stored.Topics[0].Submodules[0].Legacy)
}

// Two writers that load the same path both save whole documents; the later
// save wins and the earlier change is lost. This pins the current behavior.
func TestConcurrentEdits_LastWriteWins(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	p := env.seed(t, testutil.NewPath(owner, "Music", 1, 1))
	ctx := context.Background()

	first, err := env.uc.loadPath(ctx, owner, p.ID)
	require.NoError(t, err)
	second, err := env.uc.loadPath(ctx, owner, p.ID)
	require.NoError(t, err)

	first.Title = "first"
	second.Topics[0].Name = "second"
	require.NoError(t, env.uc.save(ctx, first, "test"))
	require.NoError(t, env.uc.save(ctx, second, "test"))

	stored := env.stored(t, p)
	require.Equal(t, "second", stored.Topics[0].Name)
	require.Equal(t, "Music Learning Path", stored.Title)
}

type mapPathCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapPathCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapPathCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapPathCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// A stale cache entry must not become the base of a write: edits load the
// stored document, while plain reads may still be served from the cache.
func TestEdits_IgnoreStaleCachedCopy(t *testing.T) {
	env := newTestEnv(t)
	cached := repos.NewCachedLearningPathRepo(env.paths, &mapPathCache{data: map[string][]byte{}}, time.Minute, testutil.Logger(t))
	uc := New(UsecasesDeps{Log: testutil.Logger(t), Paths: cached})

	owner := uuid.New()
	p := env.seed(t, testutil.NewPath(owner, "Music", 1, 1))
	ctx := context.Background()

	_, err := uc.GetPath(ctx, owner, p.ID)
	require.NoError(t, err)

	// Written behind the cache, so the cached copy is now stale.
	behind := env.stored(t, p)
	behind.Topics[0].Name = "Harmony"
	require.NoError(t, env.paths.Save(dbctx.Context{Ctx: ctx}, behind))

	stale, err := uc.GetPath(ctx, owner, p.ID)
	require.NoError(t, err)
	require.NotEqual(t, "Harmony", stale.Topics[0].Name)

	title := "Music Theory"
	updated, err := uc.UpdatePath(ctx, UpdatePathInput{UserID: owner, PathID: p.ID, Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Harmony", updated.Topics[0].Name)

	stored := env.stored(t, p)
	require.Equal(t, "Music Theory", stored.Title)
	require.Equal(t, "Harmony", stored.Topics[0].Name)
}
