package planning

// Compute runs the deterministic greedy list-scheduling policy over a
// validated instance and returns the resulting schedule. It is a pure,
// synchronous, single-threaded function: no goroutines, no channels, no
// I/O. The only non-fatal algorithmic failure is a dependency cycle; input
// shape errors are reported by Validate.
func Compute(instance Instance) (Schedule, error) {
	return ComputeWithObserver(instance, noopObserver{})
}

// ComputeWithObserver behaves like Compute but additionally reports
// progress to obs — intended for the optional Prometheus-backed Observer
// in metrics.go. Compute itself uses a no-op observer, so ordinary callers
// see no side effects.
func ComputeWithObserver(instance Instance, obs Observer) (Schedule, error) {
	if err := instance.Validate(); err != nil {
		obs.OnScheduleFailed()
		return nil, err
	}

	numJobs := len(instance.Jobs)
	schedule := make(Schedule, numJobs)
	finishTime := make([]int64, numJobs)

	machines := make([]*machineGaps, len(instance.MachineSpeeds))
	for i, speed := range instance.MachineSpeeds {
		machines[i] = newMachineGaps(speed)
	}

	nodes, ready := buildJobGraph(instance.Jobs)
	scheduledCount := 0

	for !ready.IsEmpty() {
		node, _ := ready.ExtractMin()
		i := node.idx
		job := instance.Jobs[i]

		earliestStart := job.ReleaseTime
		for _, d := range job.Dependencies {
			if finishTime[d] > earliestStart {
				earliestStart = finishTime[d]
			}
		}

		candidates, deliveryMachine := selectMachines(instance, machines, job, earliestStart)
		isPreemptible := job.Splitting != None

		fragments := make([]JobFragment, 0, len(candidates))
		completionTime := planFragments(machines, candidates, job.Size, isPreemptible, earliestStart, instance.MinFragmentSize, &fragments)
		processingFragments := len(fragments)

		if job.DeliveryTime > 0 {
			fragments = append(fragments, JobFragment{
				Machine:   deliveryMachine,
				Start:     completionTime,
				End:       completionTime + job.DeliveryTime,
				IsWaiting: true,
			})
			finishTime[i] = completionTime + job.DeliveryTime
		} else {
			finishTime[i] = completionTime
		}

		schedule[i] = fragments
		obs.OnJobScheduled(processingFragments)

		scheduledCount++
		node.complete(nodes, ready)
	}

	if scheduledCount < numJobs {
		obs.OnScheduleFailed()
		return nil, &SchedulingError{Cause: ErrCycle, Message: "dependency cycle detected: one or more jobs could not be scheduled"}
	}

	obs.OnScheduleSucceeded()
	return schedule, nil
}

// selectMachines decides the candidate machine set for the committed
// placement, and the machine a delivery/wait fragment (if any) is billed
// to, per the three cases the spec's driver distinguishes.
func selectMachines(instance Instance, machines []*machineGaps, job Job, earliestStart int64) (candidates []int, deliveryMachine int) {
	switch {
	case job.Splitting == MultipleMachines:
		deliveryMachine = 0
		if job.PreAssignment != NoPreAssignment {
			deliveryMachine = job.PreAssignment
		}
		return allMachines(len(instance.MachineSpeeds)).indices(), deliveryMachine

	case job.PreAssignment != NoPreAssignment:
		return oneMachine(job.PreAssignment).indices(), job.PreAssignment

	default:
		best := trialBestMachine(machines, job, earliestStart, instance.MinFragmentSize)
		return oneMachine(best).indices(), best
	}
}

// trialBestMachine runs a side-effect-free trial placement on each single
// machine and returns the one with the smallest completion time. Ties are
// broken by ascending machine index using strict "<" — the first machine
// to attain the current minimum wins, matching the spec's Open Question
// resolution.
func trialBestMachine(machines []*machineGaps, job Job, earliestStart, instanceMinFragmentSize int64) int {
	isPreemptible := job.Splitting != None

	best := 0
	var bestCompletion int64
	for m := range machines {
		completion := planFragments(machines, []int{m}, job.Size, isPreemptible, earliestStart, instanceMinFragmentSize, nil)
		if m == 0 || completion < bestCompletion {
			bestCompletion = completion
			best = m
		}
	}
	return best
}
