package aigen

import (
	"time"

	"github.com/cognigen/cognigen-backend/internal/domain/learning"
)

type TimeAvailability struct {
	PerDayHours int `json:"per_day_hours"`
}

type PathRequest struct {
	UserID                 string           `json:"user_id"`
	CourseName             string           `json:"course_name"`
	ExperienceLevel        string           `json:"experience_level"`
	Goal                   string           `json:"goal"`
	PreferredLearningStyle string           `json:"preferred_learning_style"`
	TimeAvailability       TimeAvailability `json:"time_availability"`
	CustomTopics           []string         `json:"custom_topics"`
}

type PathResponse struct {
	Title  string           `json:"title"`
	Topics []GeneratedTopic `json:"topics"`
}

type GeneratedTopic struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Difficulty         string             `json:"difficulty"`
	EstimatedTimeHours float64            `json:"estimated_time_hours"`
	Submodules         []SubmoduleOutline `json:"submodules"`
}

// SubmoduleOutline is the id/title/summary triple exchanged in both directions.
type SubmoduleOutline struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type TopicContentRequest struct {
	TopicID         string             `json:"topic_id"`
	TopicName       string             `json:"topic_name"`
	CourseName      string             `json:"course_name"`
	ExperienceLevel string             `json:"experience_level"`
	Submodules      []SubmoduleOutline `json:"submodules"`
}

type TopicContentResponse struct {
	Content []GeneratedContent `json:"content"`
}

// GeneratedContent is one submodule's worth of generated material. Older
// collaborator versions key items by submodule_id and send a legacy content
// object instead of cells.
type GeneratedContent struct {
	ID             string                  `json:"id,omitempty"`
	SubmoduleID    string                  `json:"submodule_id,omitempty"`
	Cells          []learning.Cell         `json:"cells,omitempty"`
	MiniQuiz       []learning.QuizItem     `json:"miniQuiz,omitempty"`
	ContentVersion int                     `json:"contentVersion,omitempty"`
	GeneratedAt    *time.Time              `json:"generatedAt,omitempty"`
	Legacy         *learning.LegacyContent `json:"content,omitempty"`
}

// Key returns the submodule id the item targets.
func (g GeneratedContent) Key() string {
	if g.ID != "" {
		return g.ID
	}
	return g.SubmoduleID
}

type QuizRequest struct {
	SubmoduleID    string     `json:"submodule_id"`
	SubmoduleTitle string     `json:"submodule_title"`
	Cells          []QuizCell `json:"cells"`
}

type QuizCell struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type QuizResponse struct {
	Quiz []learning.QuizItem `json:"quiz"`
}
