package sim

import "sort"

// Schedule is a sorted set of step indices at which a snapshot is captured.
// Checkpoints may be arbitrarily non-uniform (dense while the dynamics are
// fast, sparse during slow coarsening), so membership is tracked with a
// cursor instead of a modulo test.
type Schedule struct {
	steps  []int
	cursor int
}

// NewSchedule builds a schedule from an arbitrary list of step indices.
// The list is copied, sorted and deduplicated; negative indices are dropped.
func NewSchedule(steps []int) *Schedule {
	cleaned := make([]int, 0, len(steps))
	for _, s := range steps {
		if s >= 0 {
			cleaned = append(cleaned, s)
		}
	}
	sort.Ints(cleaned)

	uniq := cleaned[:0]
	for i, s := range cleaned {
		if i == 0 || s != cleaned[i-1] {
			uniq = append(uniq, s)
		}
	}
	return &Schedule{steps: uniq}
}

// Len reports the number of checkpoints.
func (s *Schedule) Len() int { return len(s.steps) }

// Steps returns the sorted checkpoint indices.
func (s *Schedule) Steps() []int {
	out := make([]int, len(s.steps))
	copy(out, s.steps)
	return out
}

// Remaining reports how many checkpoints have not fired yet.
func (s *Schedule) Remaining() int { return len(s.steps) - s.cursor }

// Last returns the largest checkpoint index, or -1 for an empty schedule.
func (s *Schedule) Last() int {
	if len(s.steps) == 0 {
		return -1
	}
	return s.steps[len(s.steps)-1]
}

// Due reports whether step is a checkpoint and advances the cursor past it.
// Steps must be presented in increasing order; checkpoints skipped over by
// the caller are consumed silently so the cursor never stalls.
func (s *Schedule) Due(step int) bool {
	for s.cursor < len(s.steps) && s.steps[s.cursor] < step {
		s.cursor++
	}
	if s.cursor < len(s.steps) && s.steps[s.cursor] == step {
		s.cursor++
		return true
	}
	return false
}

// Reset rewinds the cursor so the schedule can drive another run.
func (s *Schedule) Reset() { s.cursor = 0 }

// Every builds a uniform schedule: step indices from 0 to total inclusive
// at the given interval.
func Every(total, interval int) []int {
	if interval <= 0 || total < 0 {
		return nil
	}
	steps := make([]int, 0, total/interval+1)
	for i := 0; i <= total; i += interval {
		steps = append(steps, i)
	}
	return steps
}

// DenseSparse builds a two-density schedule: every denseEvery steps up to
// denseUntil, then every sparseEvery steps up to total. The final step is
// always included so a run's last state is never lost.
func DenseSparse(denseUntil, denseEvery, total, sparseEvery int) []int {
	if denseEvery <= 0 || sparseEvery <= 0 || total <= 0 {
		return nil
	}
	if denseUntil > total {
		denseUntil = total
	}
	steps := make([]int, 0)
	for i := 0; i <= denseUntil; i += denseEvery {
		steps = append(steps, i)
	}
	for i := denseUntil + sparseEvery; i <= total; i += sparseEvery {
		steps = append(steps, i)
	}
	if steps[len(steps)-1] != total {
		steps = append(steps, total)
	}
	return steps
}
