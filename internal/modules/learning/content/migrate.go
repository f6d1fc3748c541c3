package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cognigen/cognigen-backend/internal/domain/learning"
)

const (
	DefaultCodeLanguage = "javascript"
	RealWorldPrefix     = "**Real-world example:** "
)

// cellIDNamespace seeds the deterministic cell ids produced by Migrate.
var cellIDNamespace = uuid.MustParse("6f1b5e0c-3d0a-4c7e-9a43-2b8f0d9e51c4")

// Migrate converts a legacy submodule into the cell representation. A submodule
// that is already at version 2 with cells is returned unchanged. The quiz and
// the project suggestion are never turned into cells.
func Migrate(sub learning.Submodule) learning.Submodule {
	if sub.ContentVersion >= learning.ContentVersionCells && len(sub.Cells) > 0 {
		return sub
	}

	out := sub
	out.ContentVersion = learning.ContentVersionCells
	out.Legacy = nil
	if out.MiniQuiz == nil {
		out.MiniQuiz = []learning.QuizItem{}
	}

	// Unversioned rows that already carry cells and no legacy record only need the tag.
	if sub.Legacy == nil && len(sub.Cells) > 0 {
		return out
	}

	out.Cells = BuildCells(sub.ID, sub.Legacy)
	return out
}

// BuildCells lays out legacy content in a fixed order: explanation, code
// examples, one aggregated steps cell, then real-world examples.
func BuildCells(subID string, old *learning.LegacyContent) []learning.Cell {
	cells := []learning.Cell{}
	if old == nil {
		return cells
	}

	add := func(c learning.Cell) {
		c.ID = cellID(subID, len(cells))
		cells = append(cells, c)
	}

	if exp := strings.TrimSpace(old.Explanation); exp != "" {
		add(learning.Cell{Type: learning.CellExplanation, Content: learning.TextContent(exp)})
	}

	for i, ex := range old.CodeExamples {
		lang := strings.TrimSpace(ex.Language)
		if lang == "" {
			lang = DefaultCodeLanguage
		}
		c := learning.Cell{
			Type:     learning.CellCode,
			Title:    fmt.Sprintf("Example %d", i+1),
			Content:  learning.TextContent(ex.Code),
			Language: lang,
		}
		meta := map[string]any{}
		if t := strings.TrimSpace(ex.Title); t != "" {
			meta["originalTitle"] = t
		}
		if e := strings.TrimSpace(ex.Explanation); e != "" {
			meta["explanation"] = e
		}
		if len(meta) > 0 {
			c.Meta = meta
		}
		add(c)
	}

	steps := make([]string, 0, len(old.StepByStepGuide))
	for _, s := range old.StepByStepGuide {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) > 0 {
		add(learning.Cell{Type: learning.CellSteps, Content: learning.ListContent(steps)})
	}

	for _, ex := range old.RealWorldExamples {
		add(learning.Cell{
			Type:    learning.CellExplanation,
			Content: learning.TextContent(RealWorldPrefix + strings.TrimSpace(ex)),
		})
	}
	return cells
}

// MigratePath migrates every legacy submodule in place and reports how many changed.
func MigratePath(p *learning.LearningPath) int {
	if p == nil {
		return 0
	}
	changed := 0
	for ti := range p.Topics {
		subs := p.Topics[ti].Submodules
		for si := range subs {
			if !subs[si].IsLegacy() {
				continue
			}
			subs[si] = Migrate(subs[si])
			changed++
		}
	}
	return changed
}

func cellID(subID string, idx int) string {
	return uuid.NewSHA1(cellIDNamespace, []byte(fmt.Sprintf("%s:%d", subID, idx))).String()
}
