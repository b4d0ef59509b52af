package services

import (
	"sync"

	"go.uber.org/zap"
)

// Audit collects the events of one request and logs them when its scope is
// disposed. Register it with a scoped lifetime.
type Audit struct {
	logger *zap.Logger
	scope  string

	mu     sync.Mutex
	events []string
}

func NewAudit(logger *zap.Logger, scope string) *Audit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Audit{logger: logger, scope: scope}
}

// Record appends an event
func (a *Audit) Record(event string) {
	a.mu.Lock()
	a.events = append(a.events, event)
	a.mu.Unlock()
}

// Events returns a copy of the recorded events
func (a *Audit) Events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.events...)
}

// Close flushes the events to the logger
func (a *Audit) Close() error {
	events := a.Events()
	if len(events) > 0 {
		a.logger.Info("request audit", zap.String("scope", a.scope), zap.Strings("events", events))
	}
	return nil
}
