// Package wavesequencer implements the four-lane timed crossfade step
// machine driving a wave-sequencer oscillator pair's waveform index,
// pitch, amplitude, and mix gains.
package wavesequencer

// LoopMode selects how a lane's jump-table cursor wraps at its
// endpoints.
type LoopMode int

const (
	Forward LoopMode = iota
	Backward
	ForwardBackward
)

// LaneStep is one of a lane's eight programmable steps.
type LaneStep struct {
	Value           float64 // semantics depend on the owning lane
	DurationSamples int
	XfadeSamples    int
	ProbabilityPct  float64
	NextOverride    int // -1 = follow the jump table
	PrevOverride    int
	IsNull          bool // set by the per-note-on probability draw
}

// Lane owns eight steps, an 8-entry jump-table permutation, and the
// current/next step cursor used to drive a wave-sequencer output slot.
type Lane struct {
	Steps [8]LaneStep

	JumpTable        [8]int
	Current          int
	Next             int
	ForwardDirection bool
	StartPoint       int
	EndPoint         int
	LoopMode         LoopMode
	RandomizeSteps   bool

	CurrentLEDStep         int
	CurrentLEDStepDuration int
}

// ResetJumpTable restores the identity permutation 0..7.
func (l *Lane) ResetJumpTable() {
	for i := range l.JumpTable {
		l.JumpTable[i] = i
	}
}

// Reshuffle randomizes the jump table with a Fisher-Yates pass, used
// when RandomizeSteps is set and an endpoint is reached.
func (l *Lane) Reshuffle(rng *uint32) {
	for i := len(l.JumpTable) - 1; i > 0; i-- {
		j := int(nextRandom(rng)) % (i + 1)
		if j < 0 {
			j += i + 1
		}
		l.JumpTable[i], l.JumpTable[j] = l.JumpTable[j], l.JumpTable[i]
	}
}

func nextRandom(state *uint32) uint32 {
	x := *state
	if x == 0 {
		x = 0x9e3779b9
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*state = x
	return x
}

// RollProbabilities draws a uniform sample per step and marks it null
// when the draw exceeds the step's enable probability, run once at
// note-on per spec §4.7 step 3.
func (l *Lane) RollProbabilities(rng *uint32) {
	for i := range l.Steps {
		draw := float64(nextRandom(rng)%1000000) / 1000000.0
		l.Steps[i].IsNull = draw > l.Steps[i].ProbabilityPct/100.0
	}
}

// InitForNoteOn restores the identity jump table, sets Current to
// StartPoint and Next to the step after StartPoint in jump-table order,
// and sets the direction to forward.
func (l *Lane) InitForNoteOn() {
	l.ResetJumpTable()
	l.Current = l.StartPoint
	l.Next = l.jumpTableNext(l.StartPoint)
	l.ForwardDirection = true
}

// Advance promotes Next to Current and computes a new Next following
// the lane's direction and loop mode, reshuffling the jump table if an
// endpoint is hit and RandomizeSteps is on.
func (l *Lane) Advance(rng *uint32) {
	l.Current = l.Next
	atEnd := l.Current == l.EndPoint
	atStart := l.Current == l.StartPoint

	switch l.LoopMode {
	case Forward:
		if atEnd {
			if l.RandomizeSteps {
				l.Reshuffle(rng)
			}
			l.Next = l.StartPoint
		} else {
			l.Next = l.jumpTableNext(l.Current)
		}
	case Backward:
		if atStart {
			if l.RandomizeSteps {
				l.Reshuffle(rng)
			}
			l.Next = l.EndPoint
		} else {
			l.Next = l.jumpTablePrev(l.Current)
		}
	case ForwardBackward:
		if atEnd {
			l.ForwardDirection = false
		} else if atStart {
			l.ForwardDirection = true
			if l.RandomizeSteps {
				l.Reshuffle(rng)
			}
		}
		if l.ForwardDirection {
			l.Next = l.jumpTableNext(l.Current)
		} else {
			l.Next = l.jumpTablePrev(l.Current)
		}
	}
}

// jumpTableNext returns the step after idx in jump-table order,
// honoring a step's explicit NextOverride when set.
func (l *Lane) jumpTableNext(idx int) int {
	if l.Steps[idx].NextOverride >= 0 {
		return l.Steps[idx].NextOverride
	}
	pos := l.positionOf(idx)
	return l.JumpTable[(pos+1)%len(l.JumpTable)]
}

func (l *Lane) jumpTablePrev(idx int) int {
	if l.Steps[idx].PrevOverride >= 0 {
		return l.Steps[idx].PrevOverride
	}
	pos := l.positionOf(idx)
	n := len(l.JumpTable)
	return l.JumpTable[(pos-1+n)%n]
}

func (l *Lane) positionOf(stepIndex int) int {
	for i, v := range l.JumpTable {
		if v == stepIndex {
			return i
		}
	}
	return 0
}

// CurrentStep and NextStep return the step data at the lane's cursor.
func (l *Lane) CurrentStep() *LaneStep { return &l.Steps[l.Current] }
func (l *Lane) NextStep() *LaneStep    { return &l.Steps[l.Next] }
