package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func job(size int64) Job { return NewJob(size) }

// TestCompute_S1_DeliveryTime covers the worked scenario where a single
// fast machine runs two preemptible jobs back to back and each job's
// delivery time blocks only dependents, not the machine.
func TestCompute_S1_DeliveryTime(t *testing.T) {
	inst := Instance{
		MachineSpeeds: []int64{2},
		Jobs: []Job{
			withDelivery(job(2), 2),
			withDelivery(job(4), 1),
		},
	}

	sched, err := Compute(inst)
	require.NoError(t, err)
	require.Len(t, sched, 2)

	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 0, End: 1},
		{Machine: 0, Start: 1, End: 3, IsWaiting: true},
	}, sched[0])
	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 1, End: 3},
		{Machine: 0, Start: 3, End: 4, IsWaiting: true},
	}, sched[1])
}

// TestCompute_S2_SplittableAcrossMachines covers preemption, multi-machine
// splitting, non-preemptible placement and release times together on a
// two-speed machine pool.
func TestCompute_S2_SplittableAcrossMachines(t *testing.T) {
	j1 := job(10)
	j1.ReleaseTime = 1

	j2 := job(23)
	j2.Splitting = MultipleMachines

	j3 := job(10)
	j3.ReleaseTime = 5

	j4 := job(30)
	j4.Splitting = None

	inst := Instance{
		MachineSpeeds: []int64{10, 1},
		Jobs:          []Job{j1, j2, j3, j4},
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{{Machine: 0, Start: 1, End: 2}}, sched[0])
	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 0, End: 1},
		{Machine: 0, Start: 2, End: 3},
		{Machine: 1, Start: 0, End: 3},
	}, sched[1])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 5, End: 6}}, sched[2])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 6, End: 9}}, sched[3])
}

// TestCompute_S3_DependenciesWithDelivery covers a dependency edge whose
// predecessor carries a delivery time, and a job depending on two others.
func TestCompute_S3_DependenciesWithDelivery(t *testing.T) {
	j1 := withDelivery(job(4), 1)
	j1.Dependencies = []int{1}

	j2 := job(6)

	j3 := job(2)
	j3.Dependencies = []int{0, 1}

	inst := Instance{
		MachineSpeeds: []int64{2},
		Jobs:          []Job{j1, j2, j3},
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 3, End: 5},
		{Machine: 0, Start: 5, End: 6, IsWaiting: true},
	}, sched[0])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 0, End: 3}}, sched[1])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 6, End: 7}}, sched[2])
}

// TestCompute_S4_ReleaseTimesWithDependencyChain covers a job whose
// dependency finishes late enough to delay it past its own release time.
func TestCompute_S4_ReleaseTimesWithDependencyChain(t *testing.T) {
	j1 := job(2)
	j1.ReleaseTime = 4

	j2 := job(3)
	j2.ReleaseTime = 2
	j2.Dependencies = []int{2}

	j3 := job(4)
	j3.ReleaseTime = 1

	inst := Instance{
		MachineSpeeds: []int64{1},
		Jobs:          []Job{j1, j2, j3},
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{{Machine: 0, Start: 4, End: 6}}, sched[0])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 7, End: 10}}, sched[1])
	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 1, End: 4},
		{Machine: 0, Start: 6, End: 7},
	}, sched[2])
}

// TestCompute_S5_PreAssignmentForcesSlowMachine covers pre-assigned jobs
// staying on the slow machine 0 while the unassigned job's trial placement
// picks the fast machine 1 (completion 1 against 21 on machine 0).
func TestCompute_S5_PreAssignmentForcesSlowMachine(t *testing.T) {
	j1 := job(10)
	j1.PreAssignment = 0

	j2 := job(1)
	j2.PreAssignment = 0

	j3 := job(10)

	inst := Instance{
		MachineSpeeds: []int64{1, 10},
		Jobs:          []Job{j1, j2, j3},
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{{Machine: 0, Start: 0, End: 10}}, sched[0])
	assert.Equal(t, []JobFragment{{Machine: 0, Start: 10, End: 11}}, sched[1])
	assert.Equal(t, []JobFragment{{Machine: 1, Start: 0, End: 1}}, sched[2])
}

// TestCompute_S6_MinimumFragmentSizeInteraction covers the interaction
// between instance-level MinFragmentSize and MultipleMachines splitting:
// a candidate machine whose only available gap is narrower than the
// minimum fragment size must never be chosen.
func TestCompute_S6_MinimumFragmentSizeInteraction(t *testing.T) {
	j1 := job(1)
	j1.PreAssignment = 0

	j2 := job(1)
	j2.Dependencies = []int{0}
	j2.PreAssignment = 1

	j3 := job(1)
	j3.Dependencies = []int{0, 1}
	j3.PreAssignment = 2

	j4 := job(5)
	j4.Splitting = MultipleMachines
	j4.PreAssignment = 2

	inst := Instance{
		MachineSpeeds:   []int64{1, 1, 1},
		Jobs:            []Job{j1, j2, j3, j4},
		MinFragmentSize: 3,
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{{Machine: 0, Start: 0, End: 1}}, sched[0])
	assert.Equal(t, []JobFragment{{Machine: 1, Start: 1, End: 2}}, sched[1])
	assert.Equal(t, []JobFragment{{Machine: 2, Start: 2, End: 3}}, sched[2])
	assert.Equal(t, []JobFragment{
		{Machine: 0, Start: 1, End: 5},
		{Machine: 1, Start: 2, End: 5},
	}, sched[3])
}

// TestCompute_S6_HigherMinimumFragmentSizeForcesSingleMachine is the
// variant the scenario's narrative calls out: raising MinFragmentSize to
// equal the job's own size leaves no room for a second fragment, so the
// MULTIPLE_MACHINES job collapses onto a single machine.
func TestCompute_S6_HigherMinimumFragmentSizeForcesSingleMachine(t *testing.T) {
	j1 := job(1)
	j1.PreAssignment = 0

	j2 := job(1)
	j2.Dependencies = []int{0}
	j2.PreAssignment = 1

	j3 := job(1)
	j3.Dependencies = []int{0, 1}
	j3.PreAssignment = 2

	j4 := job(5)
	j4.Splitting = MultipleMachines
	j4.PreAssignment = 2

	inst := Instance{
		MachineSpeeds:   []int64{1, 1, 1},
		Jobs:            []Job{j1, j2, j3, j4},
		MinFragmentSize: 5,
	}

	sched, err := Compute(inst)
	require.NoError(t, err)

	assert.Equal(t, []JobFragment{{Machine: 0, Start: 1, End: 6}}, sched[3])
}

func withDelivery(j Job, deliveryTime int64) Job {
	j.DeliveryTime = deliveryTime
	return j
}

func TestCompute_EmptyJobsYieldsEmptySchedule(t *testing.T) {
	sched, err := Compute(Instance{MachineSpeeds: []int64{1}})
	require.NoError(t, err)
	assert.Empty(t, sched)
}

func TestCompute_ZeroMachinesFails(t *testing.T) {
	_, err := Compute(Instance{Jobs: []Job{job(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestCompute_DependencyCycleFails(t *testing.T) {
	j1 := job(1)
	j1.Dependencies = []int{1}
	j2 := job(1)
	j2.Dependencies = []int{0}

	_, err := Compute(Instance{MachineSpeeds: []int64{1}, Jobs: []Job{j1, j2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")

	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.ErrorIs(t, err, ErrCycle)
}

// TestCompute_Idempotent checks testable property 10: running Compute
// twice on the same instance produces structurally equal schedules.
func TestCompute_Idempotent(t *testing.T) {
	inst := Instance{
		MachineSpeeds: []int64{3, 1},
		Jobs: []Job{
			job(7),
			withDelivery(job(4), 2),
			job(9),
		},
	}
	inst.Jobs[2].Dependencies = []int{0, 1}

	first, err := Compute(inst)
	require.NoError(t, err)
	second, err := Compute(inst)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestCompute_Invariants re-derives the universal invariants from spec.md
// §8 against a handful of varied instances, rather than re-asserting exact
// fragment values (that's what the S1-S6 tests are for).
func TestCompute_Invariants(t *testing.T) {
	instances := []Instance{
		{
			MachineSpeeds: []int64{3, 5},
			Jobs: []Job{
				job(12),
				withDelivery(job(7), 3),
				func() Job { j := job(20); j.Splitting = MultipleMachines; return j }(),
			},
		},
		{
			MachineSpeeds: []int64{1, 2, 4},
			Jobs: []Job{
				func() Job { j := job(9); j.ReleaseTime = 2; return j }(),
				func() Job { j := job(5); j.Dependencies = []int{0}; return j }(),
				func() Job { j := job(3); j.Splitting = None; j.PreAssignment = 1; return j }(),
			},
			MinFragmentSize: 2,
		},
	}

	for idx, inst := range instances {
		sched, err := Compute(inst)
		require.NoError(t, err, "instance %d", idx)
		checkInvariants(t, inst, sched)
	}
}

func checkInvariants(t *testing.T, inst Instance, sched Schedule) {
	t.Helper()
	require.Len(t, sched, len(inst.Jobs))

	finish := make([]int64, len(inst.Jobs))

	for i, frags := range sched {
		jb := inst.Jobs[i]

		var processed int64
		for _, f := range frags {
			assert.GreaterOrEqual(t, f.Start, int64(0), "job %d fragment start", i)
			assert.GreaterOrEqual(t, f.End, f.Start, "job %d fragment end >= start", i)
			assert.GreaterOrEqual(t, f.Start, jb.ReleaseTime, "job %d respects release time", i)
			if !f.IsWaiting {
				processed += (f.End - f.Start) * inst.MachineSpeeds[f.Machine]
			}
			if f.End > finish[i] {
				finish[i] = f.End
			}
		}
		assert.Equal(t, jb.Size, processed, "job %d total processed size", i)

		if jb.Splitting == None {
			nonWaiting := 0
			for _, f := range frags {
				if !f.IsWaiting {
					nonWaiting++
				}
			}
			assert.Equal(t, 1, nonWaiting, "job %d (NONE) has exactly one non-waiting fragment", i)
		}

		if jb.Splitting != MultipleMachines && len(frags) > 0 {
			m := frags[0].Machine
			for _, f := range frags {
				assert.Equal(t, m, f.Machine, "job %d fragments share one machine", i)
			}
			if jb.PreAssignment != NoPreAssignment {
				assert.Equal(t, jb.PreAssignment, m, "job %d honors pre-assignment", i)
			}
		}

		if jb.DeliveryTime > 0 && len(frags) > 0 {
			last := frags[len(frags)-1]
			assert.True(t, last.IsWaiting, "job %d last fragment is waiting", i)
			assert.Equal(t, jb.DeliveryTime, last.End-last.Start, "job %d waiting fragment length", i)
		}

		for _, d := range jb.Dependencies {
			for _, f := range frags {
				if !f.IsWaiting {
					assert.GreaterOrEqual(t, f.Start, finish[d], "job %d starts after dependency %d finishes", i, d)
				}
			}
		}
	}

	perMachine := make(map[int][]JobFragment)
	for _, frags := range sched {
		for _, f := range frags {
			if !f.IsWaiting {
				perMachine[f.Machine] = append(perMachine[f.Machine], f)
			}
		}
	}
	for m, frags := range perMachine {
		for i := 0; i < len(frags); i++ {
			for j := i + 1; j < len(frags); j++ {
				disjoint := frags[i].End <= frags[j].Start || frags[j].End <= frags[i].Start
				assert.True(t, disjoint, "machine %d fragments %v and %v overlap", m, frags[i], frags[j])
			}
		}
	}
}
