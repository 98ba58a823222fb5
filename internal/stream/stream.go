// Package stream selects and orders the items shown in the attention
// stream. All functions are simple: items in, ordered selection out.
// No side effects.
package stream

import (
	"sort"
	"time"

	"github.com/abelbrown/tend/internal/memory"
	"github.com/abelbrown/tend/internal/model"
	"github.com/abelbrown/tend/internal/scoring"
)

// DefaultVisibleLimit is how many items the focused view shows before
// the user asks for more.
const DefaultVisibleLimit = 3

// Config tunes a selection pass.
type Config struct {
	// VisibleLimit is the top-K split point. Zero means
	// DefaultVisibleLimit.
	VisibleLimit int

	// PaneFilter decides whether an item belongs in the focused view
	// at all (e.g. excludes purely informational items). Nil includes
	// everything. Supplied as configuration so it can be tested apart
	// from scoring.
	PaneFilter func(model.Item) bool
}

// Scored pairs an item with its computed priority.
type Scored struct {
	Item  model.Item
	Score float64
}

// Selection is one cycle's ordered stream, split at the visible limit.
type Selection struct {
	Visible   []Scored
	Remaining []Scored
}

// All recovers the full ordered list: Visible ++ Remaining, nothing
// lost or duplicated.
func (s Selection) All() []Scored {
	out := make([]Scored, 0, len(s.Visible)+len(s.Remaining))
	out = append(out, s.Visible...)
	out = append(out, s.Remaining...)
	return out
}

// Shown returns what the UI renders for the given expand state.
// Expanding is a pure toggle; it never re-scores or re-orders.
func (s Selection) Shown(expanded bool) []Scored {
	if expanded {
		return s.All()
	}
	return s.Visible
}

// Select filters, scores and stable-sorts the cycle's items.
//
// Dropped before scoring: actioned ids, snoozed ids whose
// reappearance time is still in the future, and anything the pane
// filter rejects. The sort is stable descending by score, so items
// with equal scores keep their normalizer input order.
func Select(items []model.Item, view memory.View, now time.Time, scorer *scoring.Scorer, cfg Config) Selection {
	limit := cfg.VisibleLimit
	if limit <= 0 {
		limit = DefaultVisibleLimit
	}

	scored := make([]Scored, 0, len(items))
	for _, item := range items {
		if view.Hidden(item.ID(), now) {
			continue
		}
		if cfg.PaneFilter != nil && !cfg.PaneFilter(item) {
			continue
		}
		scored = append(scored, Scored{Item: item, Score: scorer.Score(item, now)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) <= limit {
		return Selection{Visible: scored}
	}
	return Selection{Visible: scored[:limit], Remaining: scored[limit:]}
}
