package planning

import "math"

// machineGaps is the single shared mutable structure across job
// placements on one machine: its speed and the permanent sentinel head of
// its free-interval list. Every planFragments call — trial or committed —
// starts a fresh gapCursor at head.next, because earliestStart is not
// monotonic across successive ready-heap jobs and a carried-over cursor
// would miss gaps that reopened, or were never visited, earlier in the
// list. A committed placement mutates nodes reachable from head in place,
// so nothing needs to be written back to machineGaps itself.
type machineGaps struct {
	speed int64
	head  *gapNode
}

func newMachineGaps(speed int64) *machineGaps {
	head, _ := newMachineGapList()
	return &machineGaps{speed: speed, head: head}
}

// planState is one candidate machine's working state for a single
// planFragments call.
type planState struct {
	index       int
	speed       int64
	cursor      gapCursor
	fragStart   int64
	hasFragment bool
}

// planFragments runs the fragment-composition event loop described by the
// spec for one ready job against one candidate machine set. If out is
// non-nil, the placement is committed: fragments are appended to *out and
// the gap nodes of each candidate machine's shared list are updated in
// place. If out is nil,
// this is a side-effect-free trial placement used only to compare
// candidate machines; no shared state is touched.
//
// It returns the job's processing completion time (lastTimestamp in the
// spec's terms).
func planFragments(machines []*machineGaps, candidates []int, size int64, isPreemptible bool, earliestStart int64, instanceMinFragmentSize int64, out *[]JobFragment) int64 {
	commit := out != nil

	minFragmentSize := size
	if isPreemptible && instanceMinFragmentSize < size {
		minFragmentSize = instanceMinFragmentSize
	}

	states := make([]*planState, len(candidates))
	for i, idx := range candidates {
		head := machines[idx].head
		states[i] = &planState{index: idx, speed: machines[idx].speed, cursor: gapCursor{prev: head, cur: head.next}}
	}

	var (
		currentSpeed  int64
		lastTimestamp = earliestStart
		remainingSize = size
	)

	for remainingSize > 0 {
		eventTime := int64(math.MaxInt64)
		var winner *planState

		for _, m := range states {
			var t int64
			if m.hasFragment {
				// Already running this job: must end at the current
				// gap's boundary.
				t = m.cursor.cur.end
			} else if m.speed == 0 {
				// A stopped machine can never host positive work,
				// regardless of minFragmentSize: it must never be chosen
				// to begin a fragment.
				t = math.MaxInt64
			} else {
				minWallClock := ceilDiv(minFragmentSize, m.speed)
				if minWallClock >= math.MaxInt64 {
					t = math.MaxInt64
				} else {
					t = m.cursor.nextTimeStamp(minWallClock, earliestStart)
				}
			}
			if t < eventTime {
				eventTime = t
				winner = m
			}
		}

		isProjectedEnd := false
		if currentSpeed > 0 {
			proj := saturatingAdd(lastTimestamp, ceilDiv(remainingSize, currentSpeed))
			if proj < eventTime {
				eventTime = proj
				isProjectedEnd = true
			}
		}

		if !isProjectedEnd && eventTime >= math.MaxInt64 {
			// Nothing is running and every remaining candidate is
			// stopped: this job can never complete on this candidate
			// set. Saturate rather than loop forever or touch the
			// permanently-open tail sentinel.
			lastTimestamp = math.MaxInt64
			break
		}

		remainingSize -= (eventTime - lastTimestamp) * currentSpeed

		if !isProjectedEnd {
			if !winner.hasFragment {
				fragStart := earliestStart
				if winner.cursor.cur.start > fragStart {
					fragStart = winner.cursor.cur.start
				}
				winner.fragStart = fragStart
				winner.hasFragment = true
				remainingSize -= (eventTime - fragStart) * winner.speed
				currentSpeed += winner.speed
			} else {
				emitFragment(out, commit, winner, eventTime)
				winner.cursor.adjustGaps(winner.fragStart, eventTime, commit)
				winner.hasFragment = false
				currentSpeed -= winner.speed
			}
		}

		lastTimestamp = eventTime
	}

	for _, m := range states {
		if m.hasFragment {
			emitFragment(out, commit, m, lastTimestamp)
			m.cursor.adjustGaps(m.fragStart, lastTimestamp, commit)
			m.hasFragment = false
		}
	}

	if commit {
		for _, m := range states {
			assertGapsSane(machines[m.index].head)
		}
	}

	return lastTimestamp
}

func emitFragment(out *[]JobFragment, commit bool, m *planState, end int64) {
	if !commit {
		return
	}
	*out = append(*out, JobFragment{Machine: m.index, Start: m.fragStart, End: end})
}

// machineSet is the tagged variant the spec's design notes call for in
// place of an "available machines" class hierarchy: either every machine
// (count holds how many), or exactly one (single holds its index).
type machineSet struct {
	all    bool
	count  int
	single int
}

func allMachines(n int) machineSet  { return machineSet{all: true, count: n} }
func oneMachine(idx int) machineSet { return machineSet{single: idx} }

// indices materializes the candidate machine index list.
func (s machineSet) indices() []int {
	if !s.all {
		return []int{s.single}
	}
	idx := make([]int, s.count)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
