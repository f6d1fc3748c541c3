package learning

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/content"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/progress"
	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
	"github.com/cognigen/cognigen-backend/internal/platform/httpx"
)

const (
	maxQuizCells       = 8
	maxQuizCellContent = 2000
)

type GenerateTopicContentInput struct {
	UserID  uuid.UUID `json:"-"`
	PathID  uuid.UUID `json:"-"`
	TopicID string    `json:"-"`
	// Submodules overrides the outline sent to the collaborator.
	Submodules []SubmoduleDraft `json:"submodules"`
}

// GenerateTopicContent fills the topic's submodules with generated cells and
// quizzes. Items are matched to submodules by id; unmatched submodules keep
// what they had. Nothing is persisted when the collaborator fails.
func (u Usecases) GenerateTopicContent(ctx context.Context, in GenerateTopicContentInput) (*types.Topic, error) {
	path, err := u.loadPath(ctx, in.UserID, in.PathID)
	if err != nil {
		return nil, err
	}
	topic, err := findTopic(path, in.TopicID)
	if err != nil {
		return nil, err
	}
	if u.deps.AI == nil {
		return nil, apierr.New(http.StatusBadGateway, "ai_service_failed", errors.New("ai client not configured"))
	}

	outline := make([]aigen.SubmoduleOutline, 0, len(topic.Submodules))
	if len(in.Submodules) > 0 {
		for _, d := range in.Submodules {
			outline = append(outline, aigen.SubmoduleOutline{ID: d.ID, Title: d.Title, Summary: d.Summary})
		}
	} else {
		for _, s := range topic.Submodules {
			outline = append(outline, aigen.SubmoduleOutline{ID: s.ID, Title: s.Title, Summary: s.Summary})
		}
	}

	resp, err := u.deps.AI.GenerateTopicContent(ctx, aigen.TopicContentRequest{
		TopicID:         topic.ID,
		TopicName:       topic.Name,
		CourseName:      path.CourseName,
		ExperienceLevel: path.ExperienceLevel,
		Submodules:      outline,
	})
	if err != nil {
		return nil, u.collaboratorError("generate_topic_content", err)
	}

	merged := 0
	for _, item := range resp.Content {
		sub := topic.Submodule(item.Key())
		if sub == nil || item.Key() == "" {
			continue
		}
		u.mergeGenerated(sub, item)
		merged++
	}
	topic.ContentGenerated = true
	progress.Recalculate(path)

	if err := u.save(ctx, path, "generate_topic_content"); err != nil {
		return nil, err
	}
	u.deps.Log.Info("topic content generated",
		"path_id", path.ID.String(),
		"topic_id", topic.ID,
		"items", len(resp.Content),
		"merged", merged,
	)
	out := *topic
	return &out, nil
}

func (u Usecases) mergeGenerated(sub *types.Submodule, item aigen.GeneratedContent) {
	if len(item.Cells) == 0 && item.Legacy != nil {
		migrated := content.Migrate(types.Submodule{
			ID:             sub.ID,
			Legacy:         item.Legacy,
			ContentVersion: types.ContentVersionLegacy,
		})
		sub.Cells = migrated.Cells
	} else {
		sub.Cells = u.normalizeCells(item.Cells)
	}
	if item.MiniQuiz != nil {
		sub.MiniQuiz = item.MiniQuiz
	}
	sub.ContentVersion = types.ContentVersionCells
	sub.Legacy = nil
	if item.GeneratedAt != nil {
		at := *item.GeneratedAt
		sub.GeneratedAt = &at
	} else {
		now := u.deps.Now()
		sub.GeneratedAt = &now
	}
}

// normalizeCells fills missing ids and downgrades unknown types to markdown.
func (u Usecases) normalizeCells(in []types.Cell) []types.Cell {
	out := make([]types.Cell, 0, len(in))
	seen := map[string]bool{}
	for _, c := range in {
		c.ID = uniqueID(strings.TrimSpace(c.ID), seen, u.deps.NewID)
		if !types.IsCellType(c.Type) {
			c.Type = types.CellMarkdown
		}
		out = append(out, c)
	}
	return out
}

// GenerateMiniQuiz builds a quiz from the submodule's explanation and code
// cells and replaces its miniQuiz. Completion is not affected.
func (u Usecases) GenerateMiniQuiz(ctx context.Context, userID, pathID uuid.UUID, topicID, subID string) (*types.Submodule, error) {
	path, sub, err := u.loadSubmodule(ctx, userID, pathID, topicID, subID)
	if err != nil {
		return nil, err
	}
	cells := quizCells(sub.Cells)
	if len(cells) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "no_quiz_content", errors.New("submodule has no explanation or code content to quiz on"))
	}
	if u.deps.AI == nil {
		return nil, apierr.New(http.StatusBadGateway, "ai_service_failed", errors.New("ai client not configured"))
	}

	resp, err := u.deps.AI.GenerateMiniQuiz(ctx, aigen.QuizRequest{
		SubmoduleID:    sub.ID,
		SubmoduleTitle: sub.Title,
		Cells:          cells,
	})
	if err != nil {
		return nil, u.collaboratorError("generate_mini_quiz", err)
	}

	quiz := resp.Quiz
	if quiz == nil {
		quiz = []types.QuizItem{}
	}
	sub.MiniQuiz = quiz
	now := u.deps.Now()
	sub.GeneratedAt = &now

	if err := u.save(ctx, path, "generate_mini_quiz"); err != nil {
		return nil, err
	}
	out := *sub
	return &out, nil
}

func quizCells(cells []types.Cell) []aigen.QuizCell {
	out := []aigen.QuizCell{}
	for _, c := range cells {
		if len(out) == maxQuizCells {
			break
		}
		if c.Type != types.CellExplanation && c.Type != types.CellCode {
			continue
		}
		text := strings.TrimSpace(c.Text())
		if text == "" {
			continue
		}
		out = append(out, aigen.QuizCell{Type: c.Type, Content: truncateRunes(text, maxQuizCellContent)})
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// collaboratorError maps a generation failure onto the API taxonomy.
func (u Usecases) collaboratorError(op string, err error) error {
	u.deps.Log.Warn("ai collaborator call failed", "op", op, "error", err.Error())
	u.deps.Metrics.IncPathOp(op, "ai_error")
	switch {
	case errors.Is(err, aigen.ErrMalformedResponse):
		return apierr.New(http.StatusBadRequest, "invalid_ai_response", errors.New("Invalid AI response format"))
	case httpx.IsTimeout(err):
		return apierr.New(http.StatusGatewayTimeout, "ai_timeout", err)
	}
	return apierr.New(http.StatusBadGateway, "ai_service_failed", err)
}
