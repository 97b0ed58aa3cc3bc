// Package session owns the live project collection. Every change goes
// through Apply or Import, one at a time, and is saved right after.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/order"
	"github.com/nhle/project-tracker/internal/persist"
)

// Intent transforms a collection. It must not mutate its argument.
type Intent func(model.Collection) model.Collection

// Session is the in-memory collection plus the gateway that persists it.
type Session struct {
	gw    *persist.Gateway
	log   zerolog.Logger
	inbox *Inbox

	mu      sync.Mutex
	current model.Collection
	hash    uint64
}

// Open probes storage, loads the stored collection and installs the session
// as the gateway's notifier. Data migrations run inside the load, before
// any intent can be applied.
func Open(ctx context.Context, gw *persist.Gateway, log zerolog.Logger) *Session {
	s := &Session{
		gw:    gw,
		log:   log.With().Str("session", uuid.NewString()).Logger(),
		inbox: &Inbox{},
	}
	gw.SetNotifier(s.inbox)

	if gw.ProbeAvailability(ctx) {
		s.log.Debug().Msg("storage available")
	}
	s.current = gw.Load(ctx)
	s.hash, _ = s.fingerprint(s.current)

	s.log.Info().
		Int("projects", len(s.current)).
		Int("todos", s.current.TodoCount()).
		Bool("persistent", gw.Enabled()).
		Msg("session opened")
	return s
}

// Snapshot returns a copy of the collection in storage order.
func (s *Session) Snapshot() model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Sorted returns a copy of the collection in display order.
func (s *Session) Sorted() model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.Tree(s.current)
}

// Apply runs intent against the current collection. When the result
// differs it replaces the collection and is saved. A failed save keeps the
// new collection in memory. Apply returns a copy of the collection after
// the intent.
func (s *Session) Apply(ctx context.Context, intent Intent) model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := intent(s.current.Clone())
	hash, err := s.fingerprint(next)
	if err == nil && hash == s.hash {
		return s.current.Clone()
	}

	s.replace(next, hash)
	s.save(ctx)
	return s.current.Clone()
}

// Import replaces the whole collection with an export document. On error
// the collection is untouched and a blocking notice is raised.
func (s *Session) Import(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.gw.Import(data)
	if err != nil {
		return s.importFailed(err)
	}
	s.imported(ctx, c)
	return nil
}

// ImportFile is Import reading from path.
func (s *Session) ImportFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.gw.ImportFromFile(path)
	if err != nil {
		return s.importFailed(err)
	}
	s.imported(ctx, c)
	return nil
}

// Export renders the current collection as an export document.
func (s *Session) Export() ([]byte, error) {
	return s.gw.Export(s.Snapshot())
}

// ExportFile writes the current collection to path and returns the path
// written.
func (s *Session) ExportFile(path string) (string, error) {
	c := s.Snapshot()
	written, err := s.gw.ExportToFile(c, path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("export failed")
		s.inbox.Notify(model.Notice{
			Level:     model.NoticeBlocking,
			Message:   fmt.Sprintf("Export failed: %v", err),
			CreatedAt: time.Now(),
		})
		return "", err
	}
	s.inbox.Notify(model.Notice{
		Level:     model.NoticeInfo,
		Message:   fmt.Sprintf("Exported %d projects to %s", len(c), written),
		CreatedAt: time.Now(),
	})
	return written, nil
}

// Notices drains notices raised since the last call.
func (s *Session) Notices() []model.Notice {
	return s.inbox.Drain()
}

// StandingNotices returns notices that stay visible all session.
func (s *Session) StandingNotices() []model.Notice {
	return s.inbox.Standing()
}

// SetSizeThreshold forwards a new size warning threshold to the gateway.
func (s *Session) SetSizeThreshold(n int) {
	s.gw.SetSizeThreshold(n)
}

// PersistenceEnabled reports whether changes reach durable storage.
func (s *Session) PersistenceEnabled() bool {
	return s.gw.Enabled()
}

func (s *Session) imported(ctx context.Context, c model.Collection) {
	hash, _ := s.fingerprint(c)
	s.replace(c, hash)
	s.log.Info().Int("projects", len(c)).Msg("imported projects")
	s.inbox.Notify(model.Notice{
		Level:     model.NoticeInfo,
		Message:   fmt.Sprintf("Imported %d projects", len(c)),
		CreatedAt: time.Now(),
	})
	s.save(ctx)
}

func (s *Session) importFailed(err error) error {
	s.log.Warn().Err(err).Msg("import rejected")
	s.inbox.Notify(model.Notice{
		Level:     model.NoticeBlocking,
		Message:   err.Error(),
		CreatedAt: time.Now(),
	})
	return err
}

func (s *Session) replace(c model.Collection, hash uint64) {
	s.current = c
	s.hash = hash
}

// save writes the current collection. Callers hold mu.
func (s *Session) save(ctx context.Context) {
	s.gw.CheckSizeWarning(s.current)
	if err := s.gw.Save(ctx, s.current); err != nil {
		s.log.Error().Err(err).Msg("changes kept in memory only")
	}
}

// fingerprint hashes c. Apply treats a hashing failure as a change.
func (s *Session) fingerprint(c model.Collection) (uint64, error) {
	h, err := hashstructure.Hash(c, hashstructure.FormatV2, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("hashing collection")
	}
	return h, err
}
