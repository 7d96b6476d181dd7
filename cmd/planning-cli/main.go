// Command planning-cli loads a job-scheduling instance from a JSON or YAML
// file, computes a schedule, and renders it. It replaces the out-of-scope
// browser demo with the idiomatic Go equivalent: a single binary, no
// subcommand framework, in the shape of cmd/tempo-cli.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/fschopp/project-planning-js/internal/util/log"
	"github.com/fschopp/project-planning-js/planning"
	kitlevel "github.com/go-kit/log/level"
)

var (
	instancePath    string
	format          string
	minFragmentSize int64
	outPath         string
	logLevel        string
)

func init() {
	flag.StringVar(&instancePath, "instance", "", "path to a JSON or YAML instance file (required)")
	flag.StringVar(&format, "format", "table", "output format: json, yaml, or table")
	flag.Int64Var(&minFragmentSize, "min-fragment-size", -1, "override the instance's minFragmentSize (-1 leaves it as loaded)")
	flag.StringVar(&outPath, "out", "", "write output here instead of stdout")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
}

func main() {
	flag.Parse()
	log.SetLevel(logLevel)

	if instancePath == "" {
		_ = kitlevel.Error(log.Logger).Log("msg", "-instance is required")
		os.Exit(1)
	}

	runID := uuid.NewString()
	_ = kitlevel.Info(log.Logger).Log("msg", "starting run", "run_id", runID, "instance", instancePath)

	if err := run(runID); err != nil {
		_ = kitlevel.Error(log.Logger).Log("msg", "run failed", "run_id", runID, "err", err)
		os.Exit(1)
	}
}

func run(runID string) error {
	inst, err := loadInstance(instancePath)
	if err != nil {
		return fmt.Errorf("loading instance: %w", err)
	}
	if minFragmentSize >= 0 {
		inst.MinFragmentSize = minFragmentSize
	}

	reg := prometheus.NewRegistry()
	metrics := planning.NewMetrics(reg).Start()

	schedule, err := planning.ComputeWithObserver(inst, metrics)
	if err != nil {
		return fmt.Errorf("computing schedule: %w", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("opening -out file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return writeJSON(out, runID, schedule)
	case "yaml":
		return writeYAML(out, runID, schedule)
	case "table":
		writeTable(out, inst, schedule)
		return nil
	default:
		return fmt.Errorf("unknown -format %q (want json, yaml, or table)", format)
	}
}

func loadInstance(path string) (planning.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return planning.Instance{}, err
	}

	var inst planning.Instance
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &inst)
	default:
		err = json.Unmarshal(data, &inst)
	}
	return inst, err
}

type runOutput struct {
	RunID    string            `json:"runId" yaml:"runId"`
	Makespan int64             `json:"makespan" yaml:"makespan"`
	Schedule planning.Schedule `json:"schedule" yaml:"schedule"`
}

func writeJSON(out *os.File, runID string, schedule planning.Schedule) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(runOutput{RunID: runID, Makespan: schedule.Makespan(), Schedule: schedule})
}

func writeYAML(out *os.File, runID string, schedule planning.Schedule) error {
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(runOutput{RunID: runID, Makespan: schedule.Makespan(), Schedule: schedule})
}

// writeTable renders per-job fragments and a per-machine utilization
// summary, grounded on BackendScheduler.StatusHandler's two-table layout.
func writeTable(out *os.File, inst planning.Instance, schedule planning.Schedule) {
	jobs := table.NewWriter()
	jobs.SetOutputMirror(out)
	jobs.AppendHeader(table.Row{"job", "machine", "start", "end", "waiting"})
	for i, frags := range schedule {
		for _, f := range frags {
			jobs.AppendRow(table.Row{i, f.Machine, f.Start, f.End, f.IsWaiting})
		}
	}
	jobs.AppendSeparator()
	jobs.Render()

	busy := make([]int64, len(inst.MachineSpeeds))
	for _, frags := range schedule {
		for _, f := range frags {
			if !f.IsWaiting {
				busy[f.Machine] += f.End - f.Start
			}
		}
	}
	makespan := schedule.Makespan()

	util := table.NewWriter()
	util.SetOutputMirror(out)
	util.AppendHeader(table.Row{"machine", "speed", "busy", "idle"})
	for m, speed := range inst.MachineSpeeds {
		idle := makespan - busy[m]
		if idle < 0 {
			idle = 0
		}
		util.AppendRow(table.Row{m, speed, busy[m], idle})
	}
	util.AppendFooter(table.Row{"", "", "", "makespan=" + strconv.FormatInt(makespan, 10)})
	util.Render()
}
