package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

// LearningPathRepo loads and stores whole learning path aggregates. Every
// single-path read and write is filtered by the owning user.
type LearningPathRepo interface {
	Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error)

	GetByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error)
	GetForUpdate(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPathSummary, error)

	Save(dbc dbctx.Context, row *types.LearningPath) error
	DeleteByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (bool, error)

	FindInBatches(dbc dbctx.Context, batchSize int, fn func(rows []*types.LearningPath) error) error
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return &learningPathRepo{db: db, log: baseLog.With("repo", "LearningPathRepo")}
}

func (r *learningPathRepo) Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error) {
	t := dbc.DB(r.db)
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.PathStatusDraft
	}
	normalizeDocument(row)
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByIDAndUser returns nil, nil when the path is missing or owned by someone else.
func (r *learningPathRepo) GetByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error) {
	t := dbc.DB(r.db)
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.LearningPath
	if err := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	normalizeDocument(out[0])
	return out[0], nil
}

// GetForUpdate always reads the store, never a cache, and locks the row when
// dbc carries a transaction. Callers that load a path in order to Save it use
// this instead of GetByIDAndUser.
func (r *learningPathRepo) GetForUpdate(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error) {
	t := dbc.DB(r.db)
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out []*types.LearningPath
	if err := q.Where("id = ? AND user_id = ?", id, userID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	normalizeDocument(out[0])
	return out[0], nil
}

func (r *learningPathRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPathSummary, error) {
	t := dbc.DB(r.db)
	out := []*types.LearningPathSummary{}
	if userID == uuid.Nil {
		return out, nil
	}
	var rows []*types.LearningPath
	if err := t.WithContext(dbc.Ctx).
		Select("id", "title", "course_name", "experience_level", "overall_progress", "status", "updated_at", "topics").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		normalizeDocument(row)
		s := row.Summary()
		out = append(out, &s)
	}
	return out, nil
}

// Save replaces the stored document. It returns gorm.ErrRecordNotFound when no
// row matches both the id and the owner, and never inserts.
func (r *learningPathRepo) Save(dbc dbctx.Context, row *types.LearningPath) error {
	t := dbc.DB(r.db)
	if row == nil || row.ID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}
	normalizeDocument(row)
	row.UpdatedAt = time.Now()

	res := t.WithContext(dbc.Ctx).
		Model(&types.LearningPath{}).
		Where("id = ? AND user_id = ?", row.ID, row.UserID).
		Updates(map[string]interface{}{
			"title":                    row.Title,
			"course_name":              row.CourseName,
			"experience_level":         row.ExperienceLevel,
			"goal":                     row.Goal,
			"preferred_learning_style": row.PreferredLearningStyle,
			"per_day_hours":            row.TimeAvailability.PerDayHours,
			"custom_topics":            row.CustomTopics,
			"topics":                   row.Topics,
			"overall_progress":         row.OverallProgress,
			"status":                   row.Status,
			"updated_at":               row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *learningPathRepo) DeleteByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	t := dbc.DB(r.db)
	if id == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.LearningPath{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindInBatches walks every stored path in primary key order. It is meant for
// maintenance jobs and is not owner scoped.
func (r *learningPathRepo) FindInBatches(dbc dbctx.Context, batchSize int, fn func(rows []*types.LearningPath) error) error {
	t := dbc.DB(r.db)
	if batchSize <= 0 {
		batchSize = 100
	}
	var rows []*types.LearningPath
	res := t.WithContext(dbc.Ctx).
		FindInBatches(&rows, batchSize, func(tx *gorm.DB, batch int) error {
			for _, row := range rows {
				normalizeDocument(row)
			}
			r.log.Debug("learning path batch", "batch", batch, "rows", len(rows))
			return fn(rows)
		})
	return res.Error
}

// normalizeDocument replaces nil slices with empty ones so the JSON columns
// never hold null and API payloads always carry arrays.
func normalizeDocument(row *types.LearningPath) {
	if row.CustomTopics == nil {
		row.CustomTopics = datatypes.JSONSlice[string]{}
	}
	if row.Topics == nil {
		row.Topics = datatypes.JSONSlice[types.Topic]{}
	}
	for i := range row.Topics {
		topic := &row.Topics[i]
		if topic.Submodules == nil {
			topic.Submodules = []types.Submodule{}
		}
		for j := range topic.Submodules {
			sub := &topic.Submodules[j]
			if sub.Cells == nil {
				sub.Cells = []types.Cell{}
			}
			if sub.MiniQuiz == nil {
				sub.MiniQuiz = []types.QuizItem{}
			}
		}
	}
}
