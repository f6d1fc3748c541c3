package progress

import (
	"math"

	"github.com/cognigen/cognigen-backend/internal/domain/learning"
)

// Percent returns round(100*done/total), or 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// RecalculateTopic re-derives the topic counters from its submodule flags.
func RecalculateTopic(t *learning.Topic) {
	if t == nil {
		return
	}
	done := 0
	for i := range t.Submodules {
		if t.Submodules[i].Completed {
			done++
		}
	}
	t.CompletedSubmodules = done
	t.Progress = Percent(done, len(t.Submodules))
}

// Recalculate derives every counter on the path from scratch and re-evaluates
// the status. Only topic counters, overallProgress and status are touched.
func Recalculate(p *learning.LearningPath) {
	if p == nil {
		return
	}
	var done, total int
	for i := range p.Topics {
		RecalculateTopic(&p.Topics[i])
		done += p.Topics[i].CompletedSubmodules
		total += len(p.Topics[i].Submodules)
	}
	p.OverallProgress = Percent(done, total)
	p.Status = NextStatus(p, total)
}

// NextStatus applies the status rules to an already recalculated path.
//   - 100% over at least one submodule is completed.
//   - completed below 100% falls back to active.
//   - draft becomes active once any topic has generated content.
func NextStatus(p *learning.LearningPath, totalSubmodules int) string {
	if totalSubmodules > 0 && p.OverallProgress == 100 {
		return learning.PathStatusCompleted
	}
	switch p.Status {
	case learning.PathStatusCompleted:
		return learning.PathStatusActive
	case learning.PathStatusDraft, "":
		for i := range p.Topics {
			if p.Topics[i].ContentGenerated {
				return learning.PathStatusActive
			}
		}
		return learning.PathStatusDraft
	}
	return p.Status
}

// Totals reports the completed and total submodule counts across the path.
func Totals(p *learning.LearningPath) (done, total int) {
	if p == nil {
		return 0, 0
	}
	for i := range p.Topics {
		for j := range p.Topics[i].Submodules {
			total++
			if p.Topics[i].Submodules[j].Completed {
				done++
			}
		}
	}
	return done, total
}
