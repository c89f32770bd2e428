// Package scenario describes simulated workloads in YAML and compiles them
// into kernel programs.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpTick     = "tick"
	OpYield    = "yield"
	OpSleep    = "sleep"
	OpFork     = "fork"
	OpWait     = "wait"
	OpSbrk     = "sbrk"
	OpOpen     = "open"
	OpChdir    = "chdir"
	OpSetQuota = "setquota"
	OpExit     = "exit"
)

// Step is one system call, or a burst of user ticks.
type Step struct {
	Op      string `yaml:"op"`
	Repeat  int    `yaml:"repeat,omitempty"`
	Ticks   int    `yaml:"ticks,omitempty"`
	Quota   int    `yaml:"quota,omitempty"`
	Program string `yaml:"program,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Create  bool   `yaml:"create,omitempty"`
	Bytes   int    `yaml:"bytes,omitempty"`
}

// Program is a named sequence of steps.
type Program struct {
	// Loop restarts the steps once they are done instead of exiting.
	Loop  bool   `yaml:"loop,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Process is a process spawned when the scenario starts.
type Process struct {
	Name    string `yaml:"name"`
	Program string `yaml:"program"`
	Quota   int    `yaml:"quota"`
	Count   int    `yaml:"count,omitempty"`
}

// Scenario is a workload: programs and the processes that run them.
type Scenario struct {
	Name      string             `yaml:"name"`
	Duration  time.Duration      `yaml:"duration,omitempty"`
	Programs  map[string]Program `yaml:"programs"`
	Processes []Process          `yaml:"processes"`
}

// Load decodes and validates a scenario.
func Load(data []byte) (*Scenario, error) {
	ret := &Scenario{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// LoadURL loads a scenario from any afs URL (file://, mem://, s3://, ...).
func LoadURL(ctx context.Context, fs afs.Service, URL string) (*Scenario, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %v: %w", URL, err)
	}
	return Load(data)
}

// Validate checks that every step is well formed and every program
// reference resolves.
func (s *Scenario) Validate() error {
	for name, program := range s.Programs {
		for i, step := range program.Steps {
			if err := s.validateStep(step); err != nil {
				return fmt.Errorf("program %v: step %d: %w", name, i, err)
			}
		}
		if program.Loop && !program.givesUpCPU() {
			return fmt.Errorf("program %v: loop never ticks, yields, sleeps or exits", name)
		}
	}
	for i, p := range s.Processes {
		if p.Name == "" {
			return fmt.Errorf("process %d: name was empty", i)
		}
		if _, ok := s.Programs[p.Program]; !ok {
			return fmt.Errorf("process %v: unknown program %q", p.Name, p.Program)
		}
		if p.Quota < 1 {
			return fmt.Errorf("process %v: quota must be at least 1", p.Name)
		}
		if p.Count < 0 {
			return fmt.Errorf("process %v: negative count", p.Name)
		}
	}
	return nil
}

// givesUpCPU reports whether one pass over the steps is certain to leave
// the CPU, which a looping program needs so it cannot hold a CPU forever.
func (p *Program) givesUpCPU() bool {
	for _, step := range p.Steps {
		switch step.Op {
		case OpTick, OpYield, OpExit:
			return true
		case OpSleep:
			if step.Ticks > 0 {
				return true
			}
		}
	}
	return false
}

func (s *Scenario) validateStep(step Step) error {
	if step.Repeat < 0 {
		return fmt.Errorf("%v: negative repeat", step.Op)
	}
	switch step.Op {
	case OpTick, OpYield, OpWait, OpExit:
	case OpSleep:
		if step.Ticks < 0 {
			return fmt.Errorf("sleep: negative ticks")
		}
	case OpFork:
		if _, ok := s.Programs[step.Program]; !ok {
			return fmt.Errorf("fork: unknown program %q", step.Program)
		}
		if step.Quota < 0 {
			return fmt.Errorf("fork: negative quota")
		}
	case OpSbrk:
	case OpOpen, OpChdir:
		if step.Path == "" {
			return fmt.Errorf("%v: path was empty", step.Op)
		}
	case OpSetQuota:
		if step.Quota < 1 {
			return fmt.Errorf("setquota: quota must be at least 1")
		}
	default:
		return fmt.Errorf("unsupported op %q", step.Op)
	}
	return nil
}
