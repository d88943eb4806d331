package hierarchy

import (
	"time"

	"github.com/ruangobat/storagehub/internal/server/blob"
)

// Service presents a flat object store as a folder hierarchy.
// It holds no state of its own: every call is computed from the store.
type Service struct {
	backend blob.IBlobBackend
	codec   *Codec
	config  *Config
	now     func() time.Time
}

type Option func(*Service)

// WithClock replaces the clock used to stamp grant expiry and folder creation
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(backend blob.IBlobBackend, config *Config, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		codec:   NewCodec(config.RootPrefix),
		config:  config,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Codec() *Codec {
	return s.codec
}
