package mission

import (
	"sort"

	"github.com/jgates/waypoint/internal/domain/progress"
	"github.com/jgates/waypoint/internal/domain/signal"
)

// MaxMissions caps a week's mission list so the user is never overwhelmed.
const MaxMissions = 5

var moduleRank = func() map[signal.Module]int {
	ranks := make(map[signal.Module]int, len(signal.ModuleOrder))
	for i, m := range signal.ModuleOrder {
		ranks[m] = i
	}
	return ranks
}()

type candidate struct {
	def   Definition
	gap   string
	index int
}

// Generate evaluates the rule table against the current signal and score and
// returns at most MaxMissions definitions. It is pure and deterministic: the
// same input always yields the same ordered list of keys.
//
// Ordering: urgent before important before bonus, then upstream modules
// before downstream ones (signal.ModuleOrder), then rule-table order.
// Deduplication: one surviving mission per (module, gap), highest priority
// first, earlier table entry winning ties.
func Generate(sig signal.ModuleSignal, score progress.ProgressScore) []Definition {
	triggered := make([]candidate, 0, len(Rules))
	for i, r := range Rules {
		if r.Condition(sig, score) {
			triggered = append(triggered, candidate{def: r.definition(), gap: r.Gap, index: i})
		}
	}

	type gapKey struct {
		module signal.Module
		gap    string
	}
	best := make(map[gapKey]candidate, len(triggered))
	for _, c := range triggered {
		k := gapKey{c.def.Module, c.gap}
		prev, ok := best[k]
		if !ok || c.def.Priority.rank() < prev.def.Priority.rank() {
			best[k] = c
		}
	}

	deduped := make([]candidate, 0, len(best))
	for _, c := range best {
		deduped = append(deduped, c)
	}
	sort.Slice(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if a.def.Priority.rank() != b.def.Priority.rank() {
			return a.def.Priority.rank() < b.def.Priority.rank()
		}
		if moduleRank[a.def.Module] != moduleRank[b.def.Module] {
			return moduleRank[a.def.Module] < moduleRank[b.def.Module]
		}
		return a.index < b.index
	})

	if len(deduped) > MaxMissions {
		deduped = deduped[:MaxMissions]
	}

	defs := make([]Definition, len(deduped))
	for i, c := range deduped {
		defs[i] = c.def
	}
	return defs
}
