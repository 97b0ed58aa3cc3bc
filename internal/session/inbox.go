package session

import (
	"sync"

	"github.com/nhle/project-tracker/internal/model"
)

// Inbox collects notices until the UI drains them. Standing notices are
// also kept for the whole session.
type Inbox struct {
	mu       sync.Mutex
	pending  []model.Notice
	standing []model.Notice
}

// Notify implements persist.Notifier.
func (b *Inbox) Notify(n model.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, n)
	if n.Standing {
		b.standing = append(b.standing, n)
	}
}

// Drain returns and clears pending notices.
func (b *Inbox) Drain() []model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Standing returns every standing notice seen so far.
func (b *Inbox) Standing() []model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Notice, len(b.standing))
	copy(out, b.standing)
	return out
}
