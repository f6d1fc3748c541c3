package learning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cognigen/cognigen-backend/internal/data/repos/testutil"
	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
)

func seedCells(t *testing.T, env *testEnv) (uuid.UUID, *types.LearningPath) {
	t.Helper()
	owner := uuid.New()
	p := testutil.NewPath(owner, "Python", 1, 1)
	p.Topics[0].Submodules[0].Cells = []types.Cell{
		{ID: "c1", Type: types.CellExplanation, Content: types.TextContent("Lists are mutable.")},
		{ID: "c2", Type: types.CellCode, Content: types.TextContent("xs = [1, 2]"), Language: "python"},
	}
	return owner, env.seed(t, p)
}

func cellIDs(s *types.Submodule) []string {
	out := make([]string, 0, len(s.Cells))
	for _, c := range s.Cells {
		out = append(out, c.ID)
	}
	return out
}

func TestAddCell(t *testing.T) {
	env := newTestEnv(t)
	owner, p := seedCells(t, env)
	ctx := context.Background()
	base := AddCellInput{UserID: owner, PathID: p.ID, TopicID: "topic-1", SubmoduleID: "topic-1-sub-1"}

	in := base
	in.Type = types.CellMarkdown
	in.Content = json.RawMessage(`"## Summary"`)
	sub, err := env.uc.AddCell(ctx, in)
	require.NoError(t, err)
	require.Len(t, sub.Cells, 3)
	require.Equal(t, types.CellMarkdown, sub.Cells[2].Type)
	require.NotEmpty(t, sub.Cells[2].ID)

	zero := 0
	in = base
	in.Type = types.CellSteps
	in.Content = types.ListContent([]string{"a", "b"})
	in.Index = &zero
	sub, err = env.uc.AddCell(ctx, in)
	require.NoError(t, err)
	require.Equal(t, types.CellSteps, sub.Cells[0].Type)
	require.Equal(t, "c1", sub.Cells[1].ID)

	in = base
	in.Type = types.CellSeparator
	sub, err = env.uc.AddCell(ctx, in)
	require.NoError(t, err)
	require.Len(t, sub.Cells, 5)

	stored := env.stored(t, p)
	require.Len(t, stored.Topics[0].Submodules[0].Cells, 5)
	require.Equal(t, 0, stored.OverallProgress)
}

func TestAddCell_Rejections(t *testing.T) {
	env := newTestEnv(t)
	owner, p := seedCells(t, env)
	ctx := context.Background()
	base := AddCellInput{UserID: owner, PathID: p.ID, TopicID: "topic-1", SubmoduleID: "topic-1-sub-1"}

	far := 9
	cases := map[string]AddCellInput{
		"unknown type":  {Type: "hologram", Content: types.TextContent("x")},
		"no content":    {Type: types.CellMarkdown},
		"null content":  {Type: types.CellCode, Content: json.RawMessage("null")},
		"index too far": {Type: types.CellMarkdown, Content: types.TextContent("x"), Index: &far},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			in.Type, in.Content, in.Index = c.Type, c.Content, c.Index
			_, err := env.uc.AddCell(ctx, in)
			require.ErrorIs(t, err, apierr.ErrInvalidArgument)
		})
	}
	require.Len(t, env.stored(t, p).Topics[0].Submodules[0].Cells, 2)

	in := base
	in.SubmoduleID = "missing"
	in.Type = types.CellMarkdown
	in.Content = types.TextContent("x")
	_, err := env.uc.AddCell(ctx, in)
	require.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestUpdateCell(t *testing.T) {
	env := newTestEnv(t)
	owner, p := seedCells(t, env)
	ctx := context.Background()

	lang := "python3"
	sub, err := env.uc.UpdateCell(ctx, UpdateCellInput{
		UserID:      owner,
		PathID:      p.ID,
		TopicID:     "topic-1",
		SubmoduleID: "topic-1-sub-1",
		Index:       1,
		Content:     types.TextContent("xs = [1, 2, 3]"),
		Language:    &lang,
	})
	require.NoError(t, err)
	require.Equal(t, "c2", sub.Cells[1].ID)
	require.Equal(t, "xs = [1, 2, 3]", sub.Cells[1].Text())
	require.Equal(t, "python3", sub.Cells[1].Language)
	require.Equal(t, "Lists are mutable.", sub.Cells[0].Text())

	for _, idx := range []int{-1, 2, 50} {
		_, err := env.uc.UpdateCell(ctx, UpdateCellInput{UserID: owner, PathID: p.ID, TopicID: "topic-1", SubmoduleID: "topic-1-sub-1", Index: idx, Content: types.TextContent("x")})
		require.ErrorIs(t, err, apierr.ErrNotFound)
	}

	bad := "hologram"
	_, err = env.uc.UpdateCell(ctx, UpdateCellInput{UserID: owner, PathID: p.ID, TopicID: "topic-1", SubmoduleID: "topic-1-sub-1", Index: 0, Type: &bad})
	require.ErrorIs(t, err, apierr.ErrInvalidArgument)
}

func TestDeleteCell(t *testing.T) {
	env := newTestEnv(t)
	owner, p := seedCells(t, env)
	ctx := context.Background()

	_, err := env.uc.DeleteCell(ctx, owner, p.ID, "topic-1", "topic-1-sub-1", 2)
	require.ErrorIs(t, err, apierr.ErrNotFound)

	sub, err := env.uc.DeleteCell(ctx, owner, p.ID, "topic-1", "topic-1-sub-1", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"c2"}, cellIDs(sub))
	require.Equal(t, []string{"c2"}, cellIDs(&env.stored(t, p).Topics[0].Submodules[0]))
}

func TestReorderCells(t *testing.T) {
	env := newTestEnv(t)
	owner, p := seedCells(t, env)
	ctx := context.Background()
	in := ReorderCellsInput{UserID: owner, PathID: p.ID, TopicID: "topic-1", SubmoduleID: "topic-1-sub-1"}

	in.OrderedCellIDs = []string{"c2", "c1"}
	sub, err := env.uc.ReorderCells(ctx, in)
	require.NoError(t, err)
	require.Equal(t, []string{"c2", "c1"}, cellIDs(sub))

	in.OrderedCellIDs = []string{"c2", "c2"}
	_, err = env.uc.ReorderCells(ctx, in)
	require.ErrorIs(t, err, apierr.ErrInvalidArgument)
	require.Equal(t, []string{"c2", "c1"}, cellIDs(&env.stored(t, p).Topics[0].Submodules[0]))
}
