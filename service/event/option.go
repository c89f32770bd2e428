package event

import (
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/service/messaging/memory"
)

// Option configures the event service.
type Option func(s *Service)

// WithMemoryQueueConfig sets the memory queue configuration
func WithMemoryQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.memConfig = config
	}
}

// WithBootID sets the boot id stamped on every event.
func WithBootID(id string) Option {
	return func(s *Service) {
		s.context.BootID = id
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
