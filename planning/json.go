package planning

import (
	"encoding/json"
	"fmt"
)

// The wire format mirrors the upstream TypeScript package's loosely-typed
// JSON shape, where every numeric field is just "number" and could in
// principle be negative or fractional. Decoding through these raw structs
// (rather than json.Unmarshal-ing straight into Instance/Job) is what lets
// Compute's external contract honor the "negative"/"integer" substrings
// spec.md §6 requires for malformed input, while the in-memory Instance
// keeps its fields as plain int64.

type rawInstance struct {
	MachineSpeeds   []float64 `json:"machineSpeeds" yaml:"machineSpeeds"`
	Jobs            []rawJob  `json:"jobs" yaml:"jobs"`
	MinFragmentSize *float64  `json:"minFragmentSize,omitempty" yaml:"minFragmentSize,omitempty"`
}

type rawJob struct {
	Size          float64   `json:"size" yaml:"size"`
	DeliveryTime  *float64  `json:"deliveryTime,omitempty" yaml:"deliveryTime,omitempty"`
	WaitTime      *float64  `json:"waitTime,omitempty" yaml:"waitTime,omitempty"`
	Splitting     *string   `json:"splitting,omitempty" yaml:"splitting,omitempty"`
	Dependencies  []float64 `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	ReleaseTime   *float64  `json:"releaseTime,omitempty" yaml:"releaseTime,omitempty"`
	EarliestStart *float64  `json:"earliestStart,omitempty" yaml:"earliestStart,omitempty"`
	PreAssignment *float64  `json:"preAssignment,omitempty" yaml:"preAssignment,omitempty"`
}

// UnmarshalJSON decodes an Instance from the wire format, validating that
// every numeric field is a whole number, and every field except
// preAssignment non-negative, as it goes. A negative preAssignment other
// than NoPreAssignment is left for Validate to reject.
func (inst *Instance) UnmarshalJSON(data []byte) error {
	var raw rawInstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Cause: ErrNotInteger, Message: fmt.Sprintf("malformed instance JSON: %v", err)}
	}
	decoded, err := decodeRawInstance(raw)
	if err != nil {
		return err
	}
	*inst = decoded
	return nil
}

func decodeRawInstance(raw rawInstance) (Instance, error) {
	speeds := make([]int64, len(raw.MachineSpeeds))
	for i, v := range raw.MachineSpeeds {
		n, err := toNonNegativeInt(fmt.Sprintf("machineSpeeds[%d]", i), v)
		if err != nil {
			return Instance{}, err
		}
		speeds[i] = n
	}

	minFragmentSize, err := toNonNegativeIntOrDefault("minFragmentSize", raw.MinFragmentSize, 0)
	if err != nil {
		return Instance{}, err
	}

	jobs := make([]Job, len(raw.Jobs))
	for i, rj := range raw.Jobs {
		job, err := decodeRawJob(i, rj)
		if err != nil {
			return Instance{}, err
		}
		jobs[i] = job
	}

	return Instance{MachineSpeeds: speeds, Jobs: jobs, MinFragmentSize: minFragmentSize}, nil
}

func decodeRawJob(i int, raw rawJob) (Job, error) {
	size, err := toNonNegativeInt(fmt.Sprintf("jobs[%d].size", i), raw.Size)
	if err != nil {
		return Job{}, err
	}

	delivery := raw.DeliveryTime
	if delivery == nil {
		delivery = raw.WaitTime
	}
	deliveryTime, err := toNonNegativeIntOrDefault(fmt.Sprintf("jobs[%d].deliveryTime", i), delivery, 0)
	if err != nil {
		return Job{}, err
	}

	release := raw.ReleaseTime
	if release == nil {
		release = raw.EarliestStart
	}
	releaseTime, err := toNonNegativeIntOrDefault(fmt.Sprintf("jobs[%d].releaseTime", i), release, 0)
	if err != nil {
		return Job{}, err
	}

	splitting := Preemption
	if raw.Splitting != nil {
		s, err := parseSplitting(i, *raw.Splitting)
		if err != nil {
			return Job{}, err
		}
		splitting = s
	}

	preAssignment := NoPreAssignment
	if raw.PreAssignment != nil {
		n, err := toInt(fmt.Sprintf("jobs[%d].preAssignment", i), *raw.PreAssignment)
		if err != nil {
			return Job{}, err
		}
		preAssignment = n
	}

	deps := make([]int, len(raw.Dependencies))
	for j, v := range raw.Dependencies {
		n, err := toNonNegativeInt(fmt.Sprintf("jobs[%d].dependencies[%d]", i, j), v)
		if err != nil {
			return Job{}, err
		}
		deps[j] = int(n)
	}

	return Job{
		Size:          size,
		DeliveryTime:  deliveryTime,
		Splitting:     splitting,
		Dependencies:  deps,
		ReleaseTime:   releaseTime,
		PreAssignment: preAssignment,
	}, nil
}

func parseSplitting(jobIdx int, s string) (Splitting, error) {
	switch s {
	case "NONE":
		return None, nil
	case "PREEMPTION":
		return Preemption, nil
	case "MULTIPLE_MACHINES":
		return MultipleMachines, nil
	default:
		return 0, &ValidationError{Cause: ErrOutOfRange, Message: fmt.Sprintf("jobs[%d].splitting: unknown value %q", jobIdx, s)}
	}
}

func toInt(field string, v float64) (int, error) {
	n, err := toWholeNumber(field, v)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func toNonNegativeInt(field string, v float64) (int64, error) {
	n, err := toWholeNumber(field, v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ValidationError{Cause: ErrNegativeValue, Message: fmt.Sprintf("%s must not be negative, got %v", field, v)}
	}
	return n, nil
}

func toNonNegativeIntOrDefault(field string, v *float64, def int64) (int64, error) {
	if v == nil {
		return def, nil
	}
	return toNonNegativeInt(field, *v)
}

func toWholeNumber(field string, v float64) (int64, error) {
	n := int64(v)
	if float64(n) != v {
		return 0, &ValidationError{Cause: ErrNotInteger, Message: fmt.Sprintf("%s must be an integer, got %v", field, v)}
	}
	return n, nil
}
