package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
)

type AddCellInput struct {
	UserID      uuid.UUID       `json:"-"`
	PathID      uuid.UUID       `json:"-"`
	TopicID     string          `json:"-"`
	SubmoduleID string          `json:"-"`
	Type        string          `json:"type" validate:"celltype"`
	Content     json.RawMessage `json:"content"`
	Title       string          `json:"title"`
	Language    string          `json:"language"`
	Meta        map[string]any  `json:"meta"`
	// Index is the insertion position; nil appends.
	Index *int `json:"index"`
}

// AddCell inserts a cell and returns the submodule. Cells do not take part in
// progress, so nothing is recalculated.
func (u Usecases) AddCell(ctx context.Context, in AddCellInput) (*types.Submodule, error) {
	in.Type = strings.TrimSpace(in.Type)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	cell := types.Cell{
		Type:     in.Type,
		Content:  in.Content,
		Title:    strings.TrimSpace(in.Title),
		Language: strings.TrimSpace(in.Language),
		Meta:     in.Meta,
	}
	if err := checkCellContent(cell); err != nil {
		return nil, err
	}

	path, sub, err := u.loadSubmodule(ctx, in.UserID, in.PathID, in.TopicID, in.SubmoduleID)
	if err != nil {
		return nil, err
	}
	pos := len(sub.Cells)
	if in.Index != nil {
		pos = *in.Index
		if pos < 0 || pos > len(sub.Cells) {
			return nil, apierr.New(http.StatusBadRequest, "invalid_cell_index", fmt.Errorf("insertion index %d outside 0..%d", pos, len(sub.Cells)))
		}
	}

	seen := map[string]bool{}
	for i := range sub.Cells {
		seen[sub.Cells[i].ID] = true
	}
	cell.ID = uniqueID("", seen, u.deps.NewID)

	cells := make([]types.Cell, 0, len(sub.Cells)+1)
	cells = append(cells, sub.Cells[:pos]...)
	cells = append(cells, cell)
	cells = append(cells, sub.Cells[pos:]...)
	sub.Cells = cells
	sub.ContentVersion = types.ContentVersionCells

	if err := u.save(ctx, path, "add_cell"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

type UpdateCellInput struct {
	UserID      uuid.UUID       `json:"-"`
	PathID      uuid.UUID       `json:"-"`
	TopicID     string          `json:"-"`
	SubmoduleID string          `json:"-"`
	Index       int             `json:"-"`
	Type        *string         `json:"type" validate:"omitnil,celltype"`
	Content     json.RawMessage `json:"content"`
	Title       *string         `json:"title"`
	Language    *string         `json:"language"`
	Meta        map[string]any  `json:"meta"`
}

func (u Usecases) UpdateCell(ctx context.Context, in UpdateCellInput) (*types.Submodule, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	path, sub, err := u.loadSubmodule(ctx, in.UserID, in.PathID, in.TopicID, in.SubmoduleID)
	if err != nil {
		return nil, err
	}
	if in.Index < 0 || in.Index >= len(sub.Cells) {
		return nil, errCellNotFound(in.Index)
	}

	cell := sub.Cells[in.Index]
	if in.Type != nil {
		cell.Type = strings.TrimSpace(*in.Type)
	}
	if in.Content != nil {
		cell.Content = in.Content
	}
	if in.Title != nil {
		cell.Title = strings.TrimSpace(*in.Title)
	}
	if in.Language != nil {
		cell.Language = strings.TrimSpace(*in.Language)
	}
	if in.Meta != nil {
		cell.Meta = in.Meta
	}
	if err := checkCellContent(cell); err != nil {
		return nil, err
	}
	sub.Cells[in.Index] = cell

	if err := u.save(ctx, path, "update_cell"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

func (u Usecases) DeleteCell(ctx context.Context, userID, pathID uuid.UUID, topicID, subID string, index int) (*types.Submodule, error) {
	path, sub, err := u.loadSubmodule(ctx, userID, pathID, topicID, subID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sub.Cells) {
		return nil, errCellNotFound(index)
	}
	sub.Cells = append(sub.Cells[:index], sub.Cells[index+1:]...)
	if err := u.save(ctx, path, "delete_cell"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

type ReorderCellsInput struct {
	UserID         uuid.UUID `json:"-"`
	PathID         uuid.UUID `json:"-"`
	TopicID        string    `json:"-"`
	SubmoduleID    string    `json:"-"`
	OrderedCellIDs []string  `json:"orderedCellIds"`
}

func (u Usecases) ReorderCells(ctx context.Context, in ReorderCellsInput) (*types.Submodule, error) {
	path, sub, err := u.loadSubmodule(ctx, in.UserID, in.PathID, in.TopicID, in.SubmoduleID)
	if err != nil {
		return nil, err
	}
	ordered, err := permute(sub.Cells, func(c types.Cell) string { return c.ID }, in.OrderedCellIDs)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_cell_ids", fmt.Errorf("invalid cell ids: %w", err))
	}
	sub.Cells = ordered
	if err := u.save(ctx, path, "reorder_cells"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

func (u Usecases) loadSubmodule(ctx context.Context, userID, pathID uuid.UUID, topicID, subID string) (*types.LearningPath, *types.Submodule, error) {
	path, err := u.loadPath(ctx, userID, pathID)
	if err != nil {
		return nil, nil, err
	}
	topic, err := findTopic(path, topicID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := findSubmodule(topic, subID)
	if err != nil {
		return nil, nil, err
	}
	return path, sub, nil
}

// checkCellContent requires a payload on every cell except separators.
func checkCellContent(c types.Cell) error {
	if c.Type == types.CellSeparator || c.HasContent() {
		return nil
	}
	return apierr.New(http.StatusBadRequest, "invalid_cell_content", errors.New("cell content is required"))
}

func errCellNotFound(index int) error {
	return apierr.NotFound("cell_not_found", fmt.Sprintf("Cell %d not found", index))
}
