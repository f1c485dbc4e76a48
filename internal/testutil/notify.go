package testutil

import (
	"context"
	"sync"

	"bakim-takip-backend/internal/notify"
)

// Recorder yayınlanan olayları bellekte tutar.
type Recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *Recorder) Publish(_ context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events yayınlanan olayların bir kopyasını döner.
func (r *Recorder) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}
