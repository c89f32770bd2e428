package kernel

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Config holds kernel tunables.
type Config struct {
	// NProc is the number of process table slots.
	NProc int `json:"nproc" yaml:"nproc"`
	// NCPU is the number of logical CPUs running the scheduler loop.
	NCPU int `json:"ncpu" yaml:"ncpu"`
	// DefaultQuota is the timeslice given to the init process.
	DefaultQuota int `json:"defaultQuota" yaml:"defaultQuota"`
	// MaxSleepBonus caps the bonus ticks earned while sleeping; 0 means uncapped.
	MaxSleepBonus int `json:"maxSleepBonus" yaml:"maxSleepBonus"`
	// EnqueueKilled puts a killed sleeper back on the run queue.
	EnqueueKilled bool `json:"enqueueKilled" yaml:"enqueueKilled"`
	// IdlePoll bounds how long an idle CPU waits before rescanning the queue.
	IdlePoll time.Duration `json:"idlePoll" yaml:"idlePoll"`
	// NOFile is the number of open files per process.
	NOFile int `json:"nofile" yaml:"nofile"`
}

// DefaultConfig returns the default kernel configuration.
func DefaultConfig() *Config {
	return &Config{
		NProc:         64,
		NCPU:          1,
		DefaultQuota:  1,
		EnqueueKilled: true,
		IdlePoll:      time.Millisecond,
		NOFile:        16,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.NProc <= 0 {
		return errors.New("nproc must be positive")
	}
	if c.NCPU <= 0 {
		return errors.New("ncpu must be positive")
	}
	if c.DefaultQuota < 1 {
		return errors.Wrapf(ErrInvalidQuota, "defaultQuota must be at least 1, got %d", c.DefaultQuota)
	}
	if c.MaxSleepBonus < 0 {
		return errors.Newf("maxSleepBonus must not be negative, got %d", c.MaxSleepBonus)
	}
	if c.IdlePoll <= 0 {
		return errors.New("idlePoll must be positive")
	}
	if c.NOFile <= 0 {
		return errors.New("nofile must be positive")
	}
	return nil
}
