package planning

import "fmt"

// Splitting controls how a job's processing requirement may be spread
// across time and machines.
type Splitting int

const (
	// None requires the job to run en bloc on a single machine.
	None Splitting = iota
	// Preemption allows the job to be interrupted and resumed on the same
	// machine. This is the default.
	Preemption
	// MultipleMachines allows the job to run on several machines
	// concurrently, each fragment subject to the minimum-fragment rule.
	MultipleMachines
)

// NoPreAssignment is the sentinel value of Job.PreAssignment meaning "no
// machine pre-assigned."
const NoPreAssignment = -1

// Job is one unit of work in an Instance.
type Job struct {
	// Size is the processing requirement (unit-machine time).
	Size int64
	// DeliveryTime is the post-processing idle duration that blocks
	// dependents but not the machine that ran the job.
	DeliveryTime int64
	// Splitting controls preemption/multi-machine behavior. The zero value
	// is None; callers that want the spec's default of Preemption must set
	// it explicitly (see NewJob).
	Splitting Splitting
	// Dependencies holds the indices (into Instance.Jobs) of jobs that
	// must finish before this one may start.
	Dependencies []int
	// ReleaseTime is the earliest moment this job may start.
	ReleaseTime int64
	// PreAssignment is the machine this job must run on, or
	// NoPreAssignment.
	PreAssignment int
}

// NewJob returns a Job with the spec's documented defaults (in particular
// Splitting defaults to Preemption, not the Go zero value None).
func NewJob(size int64) Job {
	return Job{
		Size:          size,
		Splitting:     Preemption,
		PreAssignment: NoPreAssignment,
	}
}

// Instance is the validated input to Compute: a set of jobs with
// dependencies, release times and optional pre-assignments, together with
// a set of uniform-related machines.
type Instance struct {
	// MachineSpeeds holds one non-negative integer speed per machine.
	MachineSpeeds []int64
	Jobs          []Job
	// MinFragmentSize bounds how small a preemptible fragment may be.
	MinFragmentSize int64
}

// JobFragment is one interval during which a job is active (or waiting,
// if IsWaiting) on one machine.
type JobFragment struct {
	Machine   int   `json:"machine" yaml:"machine"`
	Start     int64 `json:"start" yaml:"start"`
	End       int64 `json:"end" yaml:"end"`
	IsWaiting bool  `json:"isWaiting,omitempty" yaml:"isWaiting,omitempty"`
}

// Schedule is parallel to Instance.Jobs: Schedule[i] is job i's ordered
// fragment list.
type Schedule [][]JobFragment

// Makespan returns the maximum fragment end time across the whole
// schedule, or 0 for an empty schedule. It is a derived, read-only
// convenience — it carries no algorithmic weight and makes no optimality
// claim.
func (s Schedule) Makespan() int64 {
	var max int64
	for _, fragments := range s {
		for _, f := range fragments {
			if f.End > max {
				max = f.End
			}
		}
	}
	return max
}

// Validate checks every invariant spec.md places on an Instance's shape:
// non-negative numeric fields, in-range machine and dependency indices.
// (Non-integer detection belongs to the JSON decoding boundary — see
// UnmarshalJSON — since every field here is already a Go int64.)
func (inst *Instance) Validate() error {
	if len(inst.MachineSpeeds) == 0 {
		return &ValidationError{Cause: ErrMachinesRequired, Message: "at least one machine is required"}
	}
	if inst.MinFragmentSize < 0 {
		return &ValidationError{Cause: ErrNegativeValue, Message: "minFragmentSize must not be negative"}
	}
	for m, speed := range inst.MachineSpeeds {
		if speed < 0 {
			return &ValidationError{Cause: ErrNegativeValue, Message: fmt.Sprintf("machine speed at index %d must not be negative", m)}
		}
	}

	numJobs := len(inst.Jobs)
	for i, job := range inst.Jobs {
		if job.Size < 0 {
			return &ValidationError{Cause: ErrNegativeValue, Message: fmt.Sprintf("job %d: size must not be negative", i)}
		}
		if job.DeliveryTime < 0 {
			return &ValidationError{Cause: ErrNegativeValue, Message: fmt.Sprintf("job %d: deliveryTime must not be negative", i)}
		}
		if job.ReleaseTime < 0 {
			return &ValidationError{Cause: ErrNegativeValue, Message: fmt.Sprintf("job %d: releaseTime must not be negative", i)}
		}
		if job.PreAssignment != NoPreAssignment {
			if job.PreAssignment < 0 || job.PreAssignment >= len(inst.MachineSpeeds) {
				return &ValidationError{Cause: ErrOutOfRange, Message: fmt.Sprintf("job %d: preAssignment %d is out of range [0, %d)", i, job.PreAssignment, len(inst.MachineSpeeds))}
			}
		}
		for _, d := range job.Dependencies {
			if d < 0 || d >= numJobs {
				return &ValidationError{Cause: ErrOutOfRange, Message: fmt.Sprintf("job %d: dependency index %d is out of range [0, %d)", i, d, numJobs)}
			}
		}
	}
	return nil
}
