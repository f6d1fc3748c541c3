package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/data/repos/testutil"
	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
)

func TestLearningPathRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewLearningPathRepo(db, testutil.Logger(t))

	owner := uuid.New()
	other := uuid.New()

	p1 := testutil.NewPath(owner, "Algebra", 2, 2)
	if _, err := repo.Create(dbc, p1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	p2 := testutil.NewPath(owner, "Biology", 0, 0)
	p2.Topics = nil
	if _, err := repo.Create(dbc, p2); err != nil {
		t.Fatalf("Create empty: %v", err)
	}
	p3 := testutil.NewPath(other, "Chemistry", 1, 1)
	if _, err := repo.Create(dbc, p3); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	got, err := repo.GetByIDAndUser(dbc, p1.ID, owner)
	if err != nil || got == nil {
		t.Fatalf("GetByIDAndUser: got=%v err=%v", got, err)
	}
	if len(got.Topics) != 2 || len(got.Topics[1].Submodules) != 2 {
		t.Fatalf("document not round-tripped: %+v", got.Topics)
	}
	if got.Topics[0].Submodules[0].ContentVersion != types.ContentVersionCells {
		t.Fatalf("contentVersion lost")
	}

	empty, err := repo.GetByIDAndUser(dbc, p2.ID, owner)
	if err != nil || empty == nil || empty.Topics == nil || len(empty.Topics) != 0 {
		t.Fatalf("empty topics should load as empty list: got=%+v err=%v", empty, err)
	}

	rows, err := repo.ListByUser(dbc, owner)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != p2.ID {
		t.Fatalf("ListByUser not sorted by updatedAt desc: first=%s", rows[0].Title)
	}

	time.Sleep(5 * time.Millisecond)
	got.Title = "Algebra II"
	got.Topics[0].Submodules[0].Completed = true
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := repo.GetByIDAndUser(dbc, p1.ID, owner)
	if err != nil || reloaded == nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "Algebra II" || !reloaded.Topics[0].Submodules[0].Completed {
		t.Fatalf("Save did not replace document: %+v", reloaded)
	}
	rows, _ = repo.ListByUser(dbc, owner)
	if rows[0].ID != p1.ID {
		t.Fatalf("saved path should sort first")
	}

	ok, err := repo.DeleteByIDAndUser(dbc, p1.ID, owner)
	if err != nil || !ok {
		t.Fatalf("DeleteByIDAndUser: ok=%v err=%v", ok, err)
	}
	if gone, _ := repo.GetByIDAndUser(dbc, p1.ID, owner); gone != nil {
		t.Fatalf("path still present after delete")
	}
}

func TestLearningPathRepo_OwnershipIsolation(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewLearningPathRepo(db, testutil.Logger(t))

	owner := uuid.New()
	stranger := uuid.New()
	p := testutil.NewPath(owner, "Physics", 1, 1)
	if _, err := repo.Create(dbc, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	foreign, err := repo.GetByIDAndUser(dbc, p.ID, stranger)
	if err != nil || foreign != nil {
		t.Fatalf("stranger read: got=%v err=%v", foreign, err)
	}
	missing, err := repo.GetByIDAndUser(dbc, uuid.New(), owner)
	if err != nil || missing != nil {
		t.Fatalf("missing read: got=%v err=%v", missing, err)
	}

	if rows, err := repo.ListByUser(dbc, stranger); err != nil || len(rows) != 0 {
		t.Fatalf("stranger list: err=%v len=%d", err, len(rows))
	}

	hijack := *p
	hijack.UserID = stranger
	hijack.Title = "mine now"
	if err := repo.Save(dbc, &hijack); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger save: expected ErrRecordNotFound, got %v", err)
	}
	if ok, err := repo.DeleteByIDAndUser(dbc, p.ID, stranger); err != nil || ok {
		t.Fatalf("stranger delete: ok=%v err=%v", ok, err)
	}

	still, err := repo.GetByIDAndUser(dbc, p.ID, owner)
	if err != nil || still == nil || still.Title != p.Title {
		t.Fatalf("owner copy changed: got=%+v err=%v", still, err)
	}
}

func TestLearningPathRepo_FindInBatches(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewLearningPathRepo(db, testutil.Logger(t))

	owner := uuid.New()
	for i := 0; i < 5; i++ {
		if _, err := repo.Create(dbc, testutil.NewPath(owner, "Course", 1, 1)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	seen := 0
	batches := 0
	err := repo.FindInBatches(dbc, 2, func(rows []*types.LearningPath) error {
		batches++
		seen += len(rows)
		return nil
	})
	if err != nil {
		t.Fatalf("FindInBatches: %v", err)
	}
	if seen != 5 || batches != 3 {
		t.Fatalf("expected 5 rows in 3 batches, got %d rows in %d batches", seen, batches)
	}
}

func TestLearningPathRepo_Transaction(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewLearningPathRepo(db, testutil.Logger(t))
	owner := uuid.New()

	tx := testutil.Tx(t, db)
	p := testutil.SeedPath(t, ctx, tx, testutil.NewPath(owner, "Geometry", 1, 1))

	inTx, err := repo.GetByIDAndUser(dbctx.Context{Ctx: ctx, Tx: tx}, p.ID, owner)
	if err != nil || inTx == nil {
		t.Fatalf("read inside tx: got=%v err=%v", inTx, err)
	}
	if err := tx.Rollback().Error; err != nil {
		t.Fatalf("rollback: %v", err)
	}

	after, err := repo.GetByIDAndUser(dbctx.Context{Ctx: ctx}, p.ID, owner)
	if err != nil || after != nil {
		t.Fatalf("rolled back path still visible: got=%v err=%v", after, err)
	}
}
