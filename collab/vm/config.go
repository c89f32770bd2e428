package vm

import "fmt"

// Config defines the memory budget.
type Config struct {
	// Pages is the number of user pages available to all address spaces.
	Pages int `json:"pages" yaml:"pages"`
	// KStacks is the number of kernel stacks available.
	KStacks int `json:"kstacks" yaml:"kstacks"`
	// PageSize is the page size in bytes.
	PageSize int `json:"pageSize" yaml:"pageSize"`
}

// DefaultConfig returns the default memory budget.
func DefaultConfig() *Config {
	return &Config{Pages: 4096, KStacks: 64, PageSize: 4096}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Pages <= 0 {
		return fmt.Errorf("pages must be positive")
	}
	if c.KStacks <= 0 {
		return fmt.Errorf("kstacks must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("pageSize must be positive")
	}
	return nil
}
