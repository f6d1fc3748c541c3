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

// SubmoduleDraft is a caller supplied submodule outline.
type SubmoduleDraft struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type AddTopicInput struct {
	UserID               uuid.UUID        `json:"-"`
	PathID               uuid.UUID        `json:"-"`
	Name                 string           `json:"name" validate:"notblank"`
	Difficulty           string           `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	EstimatedTimeMinutes *int             `json:"estimatedTimeMinutes" validate:"omitnil,min=0"`
	Submodules           []SubmoduleDraft `json:"submodules"`
}

// AddTopic appends a topic. A topic submitted without submodules gets one
// default submodule named after it.
func (u Usecases) AddTopic(ctx context.Context, in AddTopicInput) (*types.Topic, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = types.DefaultTopicDifficulty
	}
	minutes := types.DefaultTopicTimeMinutes
	if in.EstimatedTimeMinutes != nil {
		minutes = *in.EstimatedTimeMinutes
	}
	subs, err := u.buildSubmodules(name, in.Submodules, nil)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for i := range path.Topics {
		seen[path.Topics[i].ID] = true
	}
	path.Topics = append(path.Topics, types.Topic{
		ID:                   uniqueID("", seen, u.deps.NewID),
		Name:                 name,
		Difficulty:           difficulty,
		EstimatedTimeMinutes: minutes,
		Submodules:           subs,
	})
	progress.Recalculate(path)
	if err := u.save(ctx, path, "add_topic"); err != nil {
		return nil, err
	}
	out := path.Topics[len(path.Topics)-1]
	return &out, nil
}

type UpdateTopicInput struct {
	UserID               uuid.UUID         `json:"-"`
	PathID               uuid.UUID         `json:"-"`
	TopicID              string            `json:"-"`
	Name                 *string           `json:"name" validate:"omitnil,notblank"`
	Difficulty           *string           `json:"difficulty" validate:"omitnil,oneof=easy medium hard"`
	EstimatedTimeMinutes *int              `json:"estimatedTimeMinutes" validate:"omitnil,min=0"`
	Submodules           *[]SubmoduleDraft `json:"submodules"`
}

// UpdateTopic applies the fields that are present. A submodule list replaces
// the current one: entries naming an existing submodule keep its content and
// completion, other entries become new empty submodules.
func (u Usecases) UpdateTopic(ctx context.Context, in UpdateTopicInput) (*types.Topic, error) {
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

	if in.Name != nil {
		topic.Name = strings.TrimSpace(*in.Name)
	}
	if in.Difficulty != nil {
		topic.Difficulty = *in.Difficulty
	}
	if in.EstimatedTimeMinutes != nil {
		topic.EstimatedTimeMinutes = *in.EstimatedTimeMinutes
	}
	if in.Submodules != nil {
		subs, err := u.buildSubmodules(topic.Name, *in.Submodules, topic.Submodules)
		if err != nil {
			return nil, err
		}
		topic.Submodules = subs
		progress.Recalculate(path)
	}

	if err := u.save(ctx, path, "update_topic"); err != nil {
		return nil, err
	}
	out := *topic
	return &out, nil
}

func (u Usecases) DeleteTopic(ctx context.Context, userID, pathID uuid.UUID, topicID string) (*types.LearningPath, error) {
	path, err := u.loadPath(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	idx := path.TopicIndex(topicID)
	if idx < 0 {
		return nil, apierr.NotFound("topic_not_found", "Topic not found")
	}
	path.Topics = append(path.Topics[:idx], path.Topics[idx+1:]...)
	progress.Recalculate(path)
	if err := u.save(ctx, path, "delete_topic"); err != nil {
		return nil, err
	}
	return path, nil
}

type ReorderTopicsInput struct {
	UserID          uuid.UUID `json:"-"`
	PathID          uuid.UUID `json:"-"`
	OrderedTopicIDs []string  `json:"orderedTopicIds"`
}

func (u Usecases) ReorderTopics(ctx context.Context, in ReorderTopicsInput) (*types.LearningPath, error) {
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	ordered, err := permute(path.Topics, func(t types.Topic) string { return t.ID }, in.OrderedTopicIDs)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_topic_ids", fmt.Errorf("invalid topic ids: %w", err))
	}
	path.Topics = ordered
	if err := u.save(ctx, path, "reorder_topics"); err != nil {
		return nil, err
	}
	return path, nil
}

// buildSubmodules turns drafts into submodules. Drafts whose id matches one of
// existing keep that submodule's content. An empty draft list yields the
// default submodule for topicName.
func (u Usecases) buildSubmodules(topicName string, drafts []SubmoduleDraft, existing []types.Submodule) ([]types.Submodule, error) {
	seen := map[string]bool{}
	if len(drafts) == 0 {
		return []types.Submodule{u.defaultSubmodule(topicName, seen)}, nil
	}
	prev := make(map[string]types.Submodule, len(existing))
	for _, s := range existing {
		prev[s.ID] = s
	}

	out := make([]types.Submodule, 0, len(drafts))
	for _, d := range drafts {
		id := strings.TrimSpace(d.ID)
		if id != "" && seen[id] {
			return nil, apierr.New(http.StatusBadRequest, "invalid_submodule_ids", fmt.Errorf("duplicate submodule id %q", id))
		}
		title := strings.TrimSpace(d.Title)
		summary := strings.TrimSpace(d.Summary)

		if old, ok := prev[id]; ok && id != "" {
			seen[id] = true
			if title != "" {
				old.Title = title
			}
			if summary != "" {
				old.Summary = summary
			}
			out = append(out, old)
			continue
		}
		if title == "" {
			title = topicName
		}
		out = append(out, types.NewSubmodule(uniqueID(id, seen, u.deps.NewID), title, summary))
	}
	return out, nil
}

func (u Usecases) defaultSubmodule(topicName string, seen map[string]bool) types.Submodule {
	return types.NewSubmodule(
		uniqueID("", seen, u.deps.NewID),
		topicName,
		fmt.Sprintf(types.DefaultSubmoduleSummaryFmt, topicName),
	)
}
