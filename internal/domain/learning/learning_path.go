package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PathStatusDraft     = "draft"
	PathStatusActive    = "active"
	PathStatusCompleted = "completed"
)

const (
	ContentVersionLegacy = 1
	ContentVersionCells  = 2
)

// LearningPath is the aggregate root. Topics and everything beneath them are
// persisted as a single JSON document and replaced as a whole on save.
type LearningPath struct {
	ID                     uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 uuid.UUID                   `gorm:"type:uuid;not null;index:idx_learning_path_user_updated,priority:1" json:"user"`
	Title                  string                      `gorm:"column:title;not null" json:"title"`
	CourseName             string                      `gorm:"column:course_name;not null" json:"courseName"`
	ExperienceLevel        string                      `gorm:"column:experience_level;not null" json:"experienceLevel"`
	Goal                   string                      `gorm:"column:goal;not null" json:"goal"`
	PreferredLearningStyle string                      `gorm:"column:preferred_learning_style;not null" json:"preferredLearningStyle"`
	TimeAvailability       TimeAvailability            `gorm:"embedded" json:"timeAvailability"`
	CustomTopics           datatypes.JSONSlice[string] `gorm:"column:custom_topics" json:"customTopics"`
	Topics                 datatypes.JSONSlice[Topic]  `gorm:"column:topics" json:"topics"`
	OverallProgress        int                         `gorm:"column:overall_progress;not null;default:0" json:"overallProgress"`
	Status                 string                      `gorm:"column:status;not null;default:'draft';index" json:"status"`
	CreatedAt              time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time                   `gorm:"autoUpdateTime;index:idx_learning_path_user_updated,priority:2" json:"updatedAt"`
}

func (LearningPath) TableName() string { return "learning_path" }

type TimeAvailability struct {
	PerDayHours int `gorm:"column:per_day_hours;not null;default:1" json:"perDayHours"`
}

// LearningPathSummary is the list projection of a path.
type LearningPathSummary struct {
	ID              uuid.UUID                  `json:"id"`
	Title           string                     `json:"title"`
	CourseName      string                     `json:"courseName"`
	ExperienceLevel string                     `json:"experienceLevel"`
	OverallProgress int                        `json:"overallProgress"`
	Status          string                     `json:"status"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
	Topics          datatypes.JSONSlice[Topic] `json:"topics"`
}

type Topic struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Difficulty           string      `json:"difficulty,omitempty"`
	EstimatedTimeMinutes int         `json:"estimatedTimeMinutes"`
	Submodules           []Submodule `json:"submodules"`
	CompletedSubmodules  int         `json:"completedSubmodules"`
	Progress             int         `json:"progress"`
	ContentGenerated     bool        `json:"contentGenerated"`
}

// Submodule holds either the legacy flat content (version 1) or the ordered
// cell sequence (version 2), never both as the source of truth.
type Submodule struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	Cells          []Cell         `json:"cells"`
	MiniQuiz       []QuizItem     `json:"miniQuiz"`
	ContentVersion int            `json:"contentVersion"`
	Completed      bool           `json:"completed"`
	GeneratedAt    *time.Time     `json:"generatedAt,omitempty"`
	Legacy         *LegacyContent `json:"content,omitempty"`
}

// IsLegacy reports whether the submodule still needs the cell migration.
func (s Submodule) IsLegacy() bool {
	return s.ContentVersion < ContentVersionCells
}

type QuizItem struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// NewSubmodule returns an empty cell-format submodule.
func NewSubmodule(id, title, summary string) Submodule {
	return Submodule{
		ID:             id,
		Title:          title,
		Summary:        summary,
		Cells:          []Cell{},
		MiniQuiz:       []QuizItem{},
		ContentVersion: ContentVersionCells,
	}
}

func (p *LearningPath) TopicIndex(topicID string) int {
	for i := range p.Topics {
		if p.Topics[i].ID == topicID {
			return i
		}
	}
	return -1
}

// Topic returns a pointer into the aggregate so callers can mutate in place.
func (p *LearningPath) Topic(topicID string) *Topic {
	if i := p.TopicIndex(topicID); i >= 0 {
		return &p.Topics[i]
	}
	return nil
}

func (t *Topic) SubmoduleIndex(subID string) int {
	for i := range t.Submodules {
		if t.Submodules[i].ID == subID {
			return i
		}
	}
	return -1
}

func (t *Topic) Submodule(subID string) *Submodule {
	if i := t.SubmoduleIndex(subID); i >= 0 {
		return &t.Submodules[i]
	}
	return nil
}

func (p *LearningPath) Summary() LearningPathSummary {
	return LearningPathSummary{
		ID:              p.ID,
		Title:           p.Title,
		CourseName:      p.CourseName,
		ExperienceLevel: p.ExperienceLevel,
		OverallProgress: p.OverallProgress,
		Status:          p.Status,
		UpdatedAt:       p.UpdatedAt,
		Topics:          p.Topics,
	}
}
