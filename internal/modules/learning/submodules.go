package learning

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/progress"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
)

type AddSubmoduleInput struct {
	UserID  uuid.UUID `json:"-"`
	PathID  uuid.UUID `json:"-"`
	TopicID string    `json:"-"`
	Title   string    `json:"title" validate:"notblank"`
	Summary string    `json:"summary"`
}

func (u Usecases) AddSubmodule(ctx context.Context, in AddSubmoduleInput) (*types.Submodule, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, in.TopicID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for i := range topic.Submodules {
		seen[topic.Submodules[i].ID] = true
	}
	sub := types.NewSubmodule(uniqueID("", seen, u.deps.NewID), strings.TrimSpace(in.Title), strings.TrimSpace(in.Summary))
	topic.Submodules = append(topic.Submodules, sub)
	progress.Recalculate(path)
	if err := u.save(ctx, path, "add_submodule"); err != nil {
		return nil, err
	}
	return &sub, nil
}

type UpdateSubmoduleInput struct {
	UserID      uuid.UUID `json:"-"`
	PathID      uuid.UUID `json:"-"`
	TopicID     string    `json:"-"`
	SubmoduleID string    `json:"-"`
	Title       *string   `json:"title" validate:"omitnil,notblank"`
	Summary     *string   `json:"summary"`
}

func (u Usecases) UpdateSubmodule(ctx context.Context, in UpdateSubmoduleInput) (*types.Submodule, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, in.TopicID)
	if err != nil {
		return nil, err
	}
	sub, err := findSubmodule(topic, in.SubmoduleID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		sub.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		sub.Summary = strings.TrimSpace(*in.Summary)
	}
	if err := u.save(ctx, path, "update_submodule"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

func (u Usecases) DeleteSubmodule(ctx context.Context, userID, pathID uuid.UUID, topicID, subID string) (*types.Topic, error) {
	path, err := u.loadPath(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, topicID)
	if err != nil {
		return nil, err
	}
	idx := topic.SubmoduleIndex(subID)
	if idx < 0 {
		return nil, apierr.NotFound("submodule_not_found", "Submodule not found")
	}
	topic.Submodules = append(topic.Submodules[:idx], topic.Submodules[idx+1:]...)
	progress.Recalculate(path)
	if err := u.save(ctx, path, "delete_submodule"); err != nil {
		return nil, err
	}
	out := *topic
	return &out, nil
}

type ReorderSubmodulesInput struct {
	UserID              uuid.UUID `json:"-"`
	PathID              uuid.UUID `json:"-"`
	TopicID             string    `json:"-"`
	OrderedSubmoduleIDs []string  `json:"orderedSubmoduleIds"`
}

func (u Usecases) ReorderSubmodules(ctx context.Context, in ReorderSubmodulesInput) (*types.Topic, error) {
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, in.TopicID)
	if err != nil {
		return nil, err
	}
	ordered, err := permute(topic.Submodules, func(s types.Submodule) string { return s.ID }, in.OrderedSubmoduleIDs)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_submodule_ids", fmt.Errorf("invalid submodule ids: %w", err))
	}
	topic.Submodules = ordered
	if err := u.save(ctx, path, "reorder_submodules"); err != nil {
		return nil, err
	}
	out := *topic
	return &out, nil
}

// MarkSubmoduleComplete flips the completed flag once. Repeating it returns
// the path without writing.
func (u Usecases) MarkSubmoduleComplete(ctx context.Context, userID, pathID uuid.UUID, topicID, subID string) (*types.LearningPath, error) {
	path, err := u.loadPath(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, topicID)
	if err != nil {
		return nil, err
	}
	sub, err := findSubmodule(topic, subID)
	if err != nil {
		return nil, err
	}
	if sub.Completed {
		return path, nil
	}
	sub.Completed = true
	progress.Recalculate(path)
	if err := u.save(ctx, path, "complete_submodule"); err != nil {
		return nil, err
	}
	if path.Status == types.PathStatusCompleted {
		u.deps.Log.Info("learning path completed", "user_id", userID.String(), "path_id", path.ID.String())
	}
	return path, nil
}
