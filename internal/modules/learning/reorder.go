package learning

import (
	"errors"
	"fmt"
)

var errNotPermutation = errors.New("ordered ids are not a permutation of the current ids")

// permute returns items rearranged into the order given by ids. ids must name
// every item exactly once; otherwise nothing is reordered.
func permute[T any](items []T, idOf func(T) string, ids []string) ([]T, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("%w: expected %d ids, got %d", errNotPermutation, len(items), len(ids))
	}
	byID := make(map[string]int, len(items))
	for i, it := range items {
		byID[idOf(it)] = i
	}
	used := make(map[string]bool, len(ids))
	out := make([]T, 0, len(items))
	for _, id := range ids {
		idx, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown id %q", errNotPermutation, id)
		}
		if used[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", errNotPermutation, id)
		}
		used[id] = true
		out = append(out, items[idx])
	}
	return out, nil
}
