package learning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/content"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/progress"
	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
)

type TimeAvailabilityInput struct {
	PerDayHours int `json:"per_day_hours" validate:"omitempty,min=1,max=10"`
}

// GeneratePathInput is bound straight from the generate request body, which
// uses snake_case keys.
type GeneratePathInput struct {
	UserID                 uuid.UUID             `json:"-"`
	CourseName             string                `json:"course_name" validate:"notblank"`
	ExperienceLevel        string                `json:"experience_level" validate:"required,oneof=beginner intermediate advanced"`
	Goal                   string                `json:"goal" validate:"required,oneof=placement mastery revision"`
	PreferredLearningStyle string                `json:"preferred_learning_style" validate:"required,oneof=theory practical mixed"`
	TimeAvailability       TimeAvailabilityInput `json:"time_availability"`
	CustomTopics           []string              `json:"custom_topics"`
}

// pathOutcome is either a generated curriculum or the reason generation fell back.
type pathOutcome interface{ isPathOutcome() }

type pathGenerated struct{ resp *aigen.PathResponse }

type pathFallback struct{ err error }

func (pathGenerated) isPathOutcome() {}
func (pathFallback) isPathOutcome()  {}

// GeneratePath asks the collaborator for a curriculum and persists it. A
// collaborator failure still persists a draft path with no topics.
func (u Usecases) GeneratePath(ctx context.Context, in GeneratePathInput) (*types.LearningPath, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	in.CourseName = strings.TrimSpace(in.CourseName)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.TimeAvailability.PerDayHours == 0 {
		in.TimeAvailability.PerDayHours = types.MinPerDayHours
	}
	customTopics := cleanStrings(in.CustomTopics)

	path := &types.LearningPath{
		ID:                     uuid.New(),
		UserID:                 in.UserID,
		CourseName:             in.CourseName,
		ExperienceLevel:        in.ExperienceLevel,
		Goal:                   in.Goal,
		PreferredLearningStyle: in.PreferredLearningStyle,
		TimeAvailability:       types.TimeAvailability{PerDayHours: in.TimeAvailability.PerDayHours},
		CustomTopics:           datatypes.JSONSlice[string](customTopics),
		Topics:                 datatypes.JSONSlice[types.Topic]{},
	}

	outcome := u.requestPath(ctx, in, customTopics)
	switch o := outcome.(type) {
	case pathGenerated:
		path.Title = strings.TrimSpace(o.resp.Title)
		if path.Title == "" {
			path.Title = fmt.Sprintf("%s Learning Path", in.CourseName)
		}
		path.Topics = u.mapGeneratedTopics(o.resp.Topics)
		path.Status = types.PathStatusDraft
		if len(path.Topics) > 0 {
			path.Status = types.PathStatusActive
		}
		progress.Recalculate(path)
	case pathFallback:
		u.deps.Log.Warn("path generation failed, storing draft",
			"user_id", in.UserID.String(),
			"course_name", in.CourseName,
			"error", o.err.Error(),
		)
		u.deps.Metrics.IncGenerationFallback()
		path.Title = fmt.Sprintf("%s Learning Path (Partial)", in.CourseName)
		path.Status = types.PathStatusDraft
	}

	created, err := u.deps.Paths.Create(dbctx.Context{Ctx: ctx}, path)
	if err != nil {
		u.deps.Metrics.IncPathOp("generate", "error")
		return nil, apierr.New(http.StatusInternalServerError, "learning_path_create_failed", err)
	}
	u.deps.Metrics.IncPathOp("generate", "ok")
	return created, nil
}

func (u Usecases) requestPath(ctx context.Context, in GeneratePathInput, customTopics []string) pathOutcome {
	if u.deps.AI == nil {
		return pathFallback{err: errors.New("ai client not configured")}
	}
	resp, err := u.deps.AI.GenerateLearningPath(ctx, aigen.PathRequest{
		UserID:                 in.UserID.String(),
		CourseName:             in.CourseName,
		ExperienceLevel:        in.ExperienceLevel,
		Goal:                   in.Goal,
		PreferredLearningStyle: in.PreferredLearningStyle,
		TimeAvailability:       aigen.TimeAvailability{PerDayHours: in.TimeAvailability.PerDayHours},
		CustomTopics:           customTopics,
	})
	if err != nil {
		return pathFallback{err: err}
	}
	if resp == nil {
		return pathFallback{err: aigen.ErrMalformedResponse}
	}
	return pathGenerated{resp: resp}
}

func (u Usecases) mapGeneratedTopics(in []aigen.GeneratedTopic) datatypes.JSONSlice[types.Topic] {
	out := make(datatypes.JSONSlice[types.Topic], 0, len(in))
	seenTopics := map[string]bool{}
	for _, gt := range in {
		id := uniqueID(strings.TrimSpace(gt.ID), seenTopics, u.deps.NewID)
		hours := gt.EstimatedTimeHours
		if hours <= 0 {
			hours = 1
		}
		difficulty := strings.ToLower(strings.TrimSpace(gt.Difficulty))
		if !isDifficulty(difficulty) {
			difficulty = types.DefaultTopicDifficulty
		}

		subs := make([]types.Submodule, 0, len(gt.Submodules))
		seenSubs := map[string]bool{}
		for _, so := range gt.Submodules {
			subID := uniqueID(strings.TrimSpace(so.ID), seenSubs, u.deps.NewID)
			subs = append(subs, types.NewSubmodule(subID, strings.TrimSpace(so.Title), strings.TrimSpace(so.Summary)))
		}

		out = append(out, types.Topic{
			ID:                   id,
			Name:                 strings.TrimSpace(gt.Name),
			Difficulty:           difficulty,
			EstimatedTimeMinutes: int(math.Round(hours * 60)),
			Submodules:           subs,
		})
	}
	return out
}

func (u Usecases) ListPaths(ctx context.Context, userID uuid.UUID) ([]*types.LearningPathSummary, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	rows, err := u.deps.Paths.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "learning_path_list_failed", err)
	}
	return rows, nil
}

func (u Usecases) GetPath(ctx context.Context, userID, pathID uuid.UUID) (*types.LearningPath, error) {
	return u.resolvePath(ctx, userID, pathID, u.deps.Paths.GetByIDAndUser)
}

type TimeAvailabilityPatch struct {
	PerDayHours *int `json:"perDayHours" validate:"omitnil,min=1,max=10"`
}

type UpdatePathInput struct {
	UserID           uuid.UUID              `json:"-"`
	PathID           uuid.UUID              `json:"-"`
	Title            *string                `json:"title" validate:"omitnil,notblank"`
	TimeAvailability *TimeAvailabilityPatch `json:"timeAvailability"`
}

func (u Usecases) UpdatePath(ctx context.Context, in UpdatePathInput) (*types.LearningPath, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		path.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeAvailability != nil && in.TimeAvailability.PerDayHours != nil {
		path.TimeAvailability.PerDayHours = *in.TimeAvailability.PerDayHours
	}
	if err := u.save(ctx, path, "update_path"); err != nil {
		return nil, err
	}
	return path, nil
}

// DeletePath removes the path together with everything nested in it.
func (u Usecases) DeletePath(ctx context.Context, userID, pathID uuid.UUID) error {
	if userID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	ok, err := u.deps.Paths.DeleteByIDAndUser(dbctx.Context{Ctx: ctx}, pathID, userID)
	if err != nil {
		u.deps.Metrics.IncPathOp("delete_path", "error")
		return apierr.New(http.StatusInternalServerError, "learning_path_delete_failed", err)
	}
	if !ok {
		return errPathNotFound()
	}
	u.deps.Log.Info("learning path deleted", "user_id", userID.String(), "path_id", pathID.String())
	u.deps.Metrics.IncPathOp("delete_path", "ok")
	return nil
}

// loadPath resolves an owned path straight from the store ahead of a save.
func (u Usecases) loadPath(ctx context.Context, userID, pathID uuid.UUID) (*types.LearningPath, error) {
	return u.resolvePath(ctx, userID, pathID, u.deps.Paths.GetForUpdate)
}

type pathGetter func(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error)

// resolvePath loads an owned path and migrates any legacy submodules in
// memory, so the next save persists the cell form.
func (u Usecases) resolvePath(ctx context.Context, userID, pathID uuid.UUID, get pathGetter) (*types.LearningPath, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if pathID == uuid.Nil {
		return nil, errPathNotFound()
	}
	path, err := get(dbctx.Context{Ctx: ctx}, pathID, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "learning_path_load_failed", err)
	}
	if path == nil {
		return nil, errPathNotFound()
	}
	if n := content.MigratePath(path); n > 0 {
		u.deps.Log.Debug("migrated legacy submodules in memory", "path_id", path.ID.String(), "submodules", n)
	}
	return path, nil
}

func (u Usecases) save(ctx context.Context, path *types.LearningPath, op string) error {
	err := u.deps.Paths.Save(dbctx.Context{Ctx: ctx}, path)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u.deps.Metrics.IncPathOp(op, "not_found")
		return errPathNotFound()
	}
	if err != nil {
		u.deps.Metrics.IncPathOp(op, "error")
		return apierr.New(http.StatusInternalServerError, "learning_path_save_failed", err)
	}
	u.deps.Metrics.IncPathOp(op, "ok")
	return nil
}

func errPathNotFound() error {
	return apierr.NotFound("learning_path_not_found", "Learning path not found")
}

func findTopic(path *types.LearningPath, topicID string) (*types.Topic, error) {
	t := path.Topic(topicID)
	if t == nil {
		return nil, apierr.NotFound("topic_not_found", "Topic not found")
	}
	return t, nil
}

func findSubmodule(topic *types.Topic, subID string) (*types.Submodule, error) {
	s := topic.Submodule(subID)
	if s == nil {
		return nil, apierr.NotFound("submodule_not_found", "Submodule not found")
	}
	return s, nil
}

func isDifficulty(s string) bool {
	switch s {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
		return true
	}
	return false
}

// uniqueID keeps id when it is set and unused, otherwise mints a new one.
func uniqueID(id string, seen map[string]bool, newID func() string) string {
	for id == "" || seen[id] {
		id = newID()
	}
	seen[id] = true
	return id
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
