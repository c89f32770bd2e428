package fs

import "fmt"

// Config defines the file layer.
type Config struct {
	// Root is the afs base URL of the file system.
	Root string `json:"root" yaml:"root"`
	// MaxOpBlocks bounds the operations allowed inside the log scope at once.
	MaxOpBlocks int `json:"maxOpBlocks" yaml:"maxOpBlocks"`
	// NOFile is the number of open files per process.
	NOFile int `json:"nofile" yaml:"nofile"`
}

// DefaultConfig returns the default file layer configuration.
func DefaultConfig() *Config {
	return &Config{Root: "mem://localhost/kproc", MaxOpBlocks: 10, NOFile: 16}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if c.MaxOpBlocks <= 0 {
		return fmt.Errorf("maxOpBlocks must be positive")
	}
	if c.NOFile <= 0 {
		return fmt.Errorf("nofile must be positive")
	}
	return nil
}
