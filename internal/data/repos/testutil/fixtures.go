package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
)

// NewPath builds an unsaved path with the given shape; every submodule starts
// incomplete in cell format.
func NewPath(userID uuid.UUID, course string, topics, subsPerTopic int) *types.LearningPath {
	p := &types.LearningPath{
		ID:                     uuid.New(),
		UserID:                 userID,
		Title:                  course + " Learning Path",
		CourseName:             course,
		ExperienceLevel:        types.ExperienceBeginner,
		Goal:                   types.GoalMastery,
		PreferredLearningStyle: types.StyleMixed,
		TimeAvailability:       types.TimeAvailability{PerDayHours: 2},
		CustomTopics:           datatypes.JSONSlice[string]{},
		Topics:                 datatypes.JSONSlice[types.Topic]{},
		Status:                 types.PathStatusDraft,
	}
	for i := 0; i < topics; i++ {
		t := types.Topic{
			ID:                   fmt.Sprintf("topic-%d", i+1),
			Name:                 fmt.Sprintf("Topic %d", i+1),
			Difficulty:           types.DefaultTopicDifficulty,
			EstimatedTimeMinutes: types.DefaultTopicTimeMinutes,
			Submodules:           []types.Submodule{},
		}
		for j := 0; j < subsPerTopic; j++ {
			t.Submodules = append(t.Submodules, types.NewSubmodule(
				fmt.Sprintf("topic-%d-sub-%d", i+1, j+1),
				fmt.Sprintf("Submodule %d.%d", i+1, j+1),
				"",
			))
		}
		p.Topics = append(p.Topics, t)
	}
	if topics > 0 {
		p.Status = types.PathStatusActive
	}
	return p
}

func SeedPath(tb testing.TB, ctx context.Context, tx *gorm.DB, p *types.LearningPath) *types.LearningPath {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed learning path: %v", err)
	}
	return p
}
