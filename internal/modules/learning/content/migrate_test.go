package content

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/cognigen/cognigen-backend/internal/domain/learning"
)

func legacySubmodule() learning.Submodule {
	return learning.Submodule{
		ID:             "sub-1",
		Title:          "Closures",
		ContentVersion: learning.ContentVersionLegacy,
		MiniQuiz: []learning.QuizItem{
			{Question: "Q?", Options: []string{"a", "b"}, Answer: "a"},
		},
		Legacy: &learning.LegacyContent{
			Explanation: "  A closure captures variables.  ",
			CodeExamples: []learning.LegacyCodeExample{
				learning.PlainCodeExample("const f = () => x;"),
				{Title: "Counter", Code: "let c = 0;", Explanation: "counts", Language: "typescript"},
			},
			StepByStepGuide:   []string{" define ", "", "  ", "call"},
			RealWorldExamples: []string{" event handlers "},
			ProjectSuggestion: "Build a memoizer",
		},
	}
}

func TestMigrate_BuildsCellsInFixedOrder(t *testing.T) {
	out := Migrate(legacySubmodule())

	if out.ContentVersion != learning.ContentVersionCells {
		t.Fatalf("expected contentVersion=2 got %d", out.ContentVersion)
	}
	if out.Legacy != nil {
		t.Fatalf("expected legacy content to be cleared")
	}
	wantTypes := []string{learning.CellExplanation, learning.CellCode, learning.CellCode, learning.CellSteps, learning.CellExplanation}
	if len(out.Cells) != len(wantTypes) {
		t.Fatalf("expected %d cells got %d", len(wantTypes), len(out.Cells))
	}
	for i, want := range wantTypes {
		if out.Cells[i].Type != want {
			t.Fatalf("cell %d: expected type %q got %q", i, want, out.Cells[i].Type)
		}
		if out.Cells[i].ID == "" {
			t.Fatalf("cell %d: expected an id", i)
		}
	}

	if got := out.Cells[0].Text(); got != "A closure captures variables." {
		t.Fatalf("explanation not trimmed: %q", got)
	}
	if out.Cells[1].Title != "Example 1" || out.Cells[1].Language != DefaultCodeLanguage {
		t.Fatalf("unexpected first code cell: title=%q lang=%q", out.Cells[1].Title, out.Cells[1].Language)
	}
	if out.Cells[2].Title != "Example 2" || out.Cells[2].Language != "typescript" {
		t.Fatalf("unexpected second code cell: title=%q lang=%q", out.Cells[2].Title, out.Cells[2].Language)
	}
	if out.Cells[2].Meta["explanation"] != "counts" {
		t.Fatalf("expected code explanation in meta, got %v", out.Cells[2].Meta)
	}

	var steps []string
	if err := json.Unmarshal(out.Cells[3].Content, &steps); err != nil {
		t.Fatalf("steps payload: %v", err)
	}
	if !reflect.DeepEqual(steps, []string{"define", "call"}) {
		t.Fatalf("unexpected steps: %v", steps)
	}
	if got := out.Cells[4].Text(); got != RealWorldPrefix+"event handlers" {
		t.Fatalf("unexpected real-world cell: %q", got)
	}
}

func TestMigrate_DoesNotTouchQuizOrProjectSuggestion(t *testing.T) {
	in := legacySubmodule()
	out := Migrate(in)

	if !reflect.DeepEqual(out.MiniQuiz, in.MiniQuiz) {
		t.Fatalf("miniQuiz changed: %v", out.MiniQuiz)
	}
	for _, c := range out.Cells {
		if c.Text() == "Build a memoizer" {
			t.Fatalf("project suggestion leaked into cells")
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	cases := map[string]learning.Submodule{
		"full legacy":        legacySubmodule(),
		"no legacy record":   {ID: "s", ContentVersion: learning.ContentVersionLegacy},
		"empty legacy":       {ID: "s", ContentVersion: 0, Legacy: &learning.LegacyContent{}},
		"already migrated":   {ID: "s", ContentVersion: 2, Cells: []learning.Cell{{ID: "c", Type: learning.CellMarkdown, Content: learning.TextContent("x")}}},
		"unversioned cells":  {ID: "s", Cells: []learning.Cell{{ID: "c", Type: learning.CellCode, Content: learning.TextContent("x")}}},
		"v2 without content": {ID: "s", ContentVersion: 2},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			once := Migrate(in)
			twice := Migrate(once)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("migrate not idempotent:\nonce=%+v\ntwice=%+v", once, twice)
			}
		})
	}
}

func TestMigrate_AlreadyMigratedReturnedUnchanged(t *testing.T) {
	in := learning.Submodule{
		ID:             "s",
		ContentVersion: 2,
		Cells:          []learning.Cell{{ID: "c1", Type: learning.CellMarkdown, Content: learning.TextContent("keep")}},
	}
	out := Migrate(in)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("expected unchanged submodule, got %+v", out)
	}
}

func TestMigrate_MissingFieldsYieldNoCells(t *testing.T) {
	out := Migrate(learning.Submodule{ID: "s", ContentVersion: 1})
	if out.Cells == nil || len(out.Cells) != 0 {
		t.Fatalf("expected empty non-nil cells, got %v", out.Cells)
	}
	out = Migrate(learning.Submodule{ID: "s", Legacy: &learning.LegacyContent{Explanation: "   "}})
	if len(out.Cells) != 0 {
		t.Fatalf("blank explanation should not produce a cell, got %d", len(out.Cells))
	}
}

func TestMigrate_DeterministicIDs(t *testing.T) {
	a := Migrate(legacySubmodule())
	b := Migrate(legacySubmodule())
	for i := range a.Cells {
		if a.Cells[i].ID != b.Cells[i].ID {
			t.Fatalf("cell %d id differs between runs", i)
		}
	}
}

func TestLegacyContent_DecodesBothCodeExampleEras(t *testing.T) {
	raw := `{"id":"s","title":"t","contentVersion":1,"content":{"explanation":"e","codeExamples":["print(1)",{"title":"T","code":"x = 1","explanation":"assign"}]}}`
	var sub learning.Submodule
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sub.Legacy == nil || len(sub.Legacy.CodeExamples) != 2 {
		t.Fatalf("expected two code examples, got %+v", sub.Legacy)
	}
	if !sub.Legacy.CodeExamples[0].IsPlain() || sub.Legacy.CodeExamples[0].Code != "print(1)" {
		t.Fatalf("plain example decoded wrong: %+v", sub.Legacy.CodeExamples[0])
	}
	out := Migrate(sub)
	if len(out.Cells) != 3 {
		t.Fatalf("expected 3 cells got %d", len(out.Cells))
	}
	if out.Cells[2].Text() != "x = 1" {
		t.Fatalf("unexpected code payload %q", out.Cells[2].Text())
	}
}

func TestMigratePath_OnlyLegacySubmodules(t *testing.T) {
	p := &learning.LearningPath{
		Topics: []learning.Topic{{
			ID: "t1",
			Submodules: []learning.Submodule{
				legacySubmodule(),
				learning.NewSubmodule("s2", "fresh", ""),
			},
		}},
	}
	if n := MigratePath(p); n != 1 {
		t.Fatalf("expected 1 migrated submodule, got %d", n)
	}
	if p.Topics[0].Submodules[0].IsLegacy() {
		t.Fatalf("first submodule still legacy")
	}
	if n := MigratePath(p); n != 0 {
		t.Fatalf("second pass should be a no-op, got %d", n)
	}
}
