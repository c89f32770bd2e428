package kproc

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/kproc/collab/fs"
	"github.com/viant/kproc/collab/vm"
	"github.com/viant/kproc/kernel"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the whole system. Sections
// missing from a loaded document keep their defaults.
type Config struct {
	Kernel    kernel.Config  `json:"kernel" yaml:"kernel"`
	Memory    vm.Config      `json:"memory" yaml:"memory"`
	Files     fs.Config      `json:"files" yaml:"files"`
	Timer     TimerConfig    `json:"timer" yaml:"timer"`
	Tracing   TracingConfig  `json:"tracing" yaml:"tracing"`
	Snapshots SnapshotConfig `json:"snapshots" yaml:"snapshots"`
	Events    EventConfig    `json:"events" yaml:"events"`
}

// TimerConfig defines the tick source.
type TimerConfig struct {
	// Interval between ticks; 0 means ticks are advanced manually.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// TracingConfig defines OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Version     string `json:"version" yaml:"version"`
	OutputFile  string `json:"outputFile" yaml:"outputFile"`
}

// SnapshotConfig defines where snapshots are stored.
type SnapshotConfig struct {
	// URL is an afs base URL; empty keeps snapshots in memory.
	URL string `json:"url" yaml:"url"`
}

// EventConfig defines the lifecycle event queue.
type EventConfig struct {
	Buffer int `json:"buffer" yaml:"buffer"`
}

// DefaultConfig returns a Config populated with the package defaults of
// every subsystem.
func DefaultConfig() *Config {
	return &Config{
		Kernel:  *kernel.DefaultConfig(),
		Memory:  *vm.DefaultConfig(),
		Files:   *fs.DefaultConfig(),
		Timer:   TimerConfig{Interval: 10 * time.Millisecond},
		Tracing: TracingConfig{ServiceName: "kproc", Version: "0.1.0"},
		Events:  EventConfig{Buffer: 1024},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Kernel.Validate(); err != nil {
		return fmt.Errorf("kernel: %w", err)
	}
	if err := c.Memory.Validate(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if err := c.Files.Validate(); err != nil {
		return fmt.Errorf("files: %w", err)
	}
	if c.Timer.Interval < 0 {
		return fmt.Errorf("timer.interval must not be negative")
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		return fmt.Errorf("tracing.serviceName cannot be empty")
	}
	if c.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer must be positive")
	}
	return nil
}

// LoadConfig decodes a YAML document from any afs URL over the defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
