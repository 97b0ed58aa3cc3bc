// Package persist moves the project collection between memory, a durable
// key-value store and export files.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/store"
)

const (
	// DataKey holds the JSON array of projects.
	DataKey = "project-management-data"
	// VersionKey holds the schema version of DataKey as a decimal string.
	VersionKey = "project-management-data-version"

	// CurrentSchemaVersion is written alongside every save.
	CurrentSchemaVersion = 1

	// DefaultSizeThreshold is the serialized size above which an advisory
	// notice is raised.
	DefaultSizeThreshold = 4 << 20

	probeKeyPrefix = "project-tracker-probe-"
)

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(model.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(model.Notice)

func (f NotifierFunc) Notify(n model.Notice) { f(n) }

// Gateway loads and saves the collection through a store.KV and reads and
// writes export files through an afero.Fs.
type Gateway struct {
	kv         store.KV
	fs         afero.Fs
	log        zerolog.Logger
	notifier   Notifier
	threshold  int
	migrations []Migration

	mu      sync.Mutex
	enabled bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithSizeThreshold overrides DefaultSizeThreshold. Zero or less disables the warning.
func WithSizeThreshold(n int) Option {
	return func(g *Gateway) { g.threshold = n }
}

// WithMigrations registers data migrations. They are sorted by version.
func WithMigrations(ms ...Migration) Option {
	return func(g *Gateway) { g.migrations = append(g.migrations, ms...) }
}

// WithFs sets the file system used for export and import.
func WithFs(fs afero.Fs) Option {
	return func(g *Gateway) { g.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// WithNotifier sets where notices are delivered.
func WithNotifier(n Notifier) Option {
	return func(g *Gateway) { g.notifier = n }
}

// NewGateway returns a Gateway over kv with persistence enabled.
func NewGateway(kv store.KV, opts ...Option) *Gateway {
	g := &Gateway{
		kv:        kv,
		fs:        afero.NewOsFs(),
		log:       zerolog.Nop(),
		notifier:  NotifierFunc(func(model.Notice) {}),
		threshold: DefaultSizeThreshold,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(g)
	}
	sortMigrations(g.migrations)
	return g
}

// SetNotifier replaces where notices are delivered.
func (g *Gateway) SetNotifier(n Notifier) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notifier = n
}

// SetSizeThreshold changes the size above which saves raise an advisory
// notice. Zero or less turns the notice off.
func (g *Gateway) SetSizeThreshold(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = n
}

// Enabled reports whether writes reach the durable store.
func (g *Gateway) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// ProbeAvailability writes and deletes a throwaway key. On failure
// persistence is disabled for the Gateway's lifetime and a standing warning
// is raised.
func (g *Gateway) ProbeAvailability(ctx context.Context) bool {
	key := probeKeyPrefix + uuid.NewString()

	err := g.kv.SetMany(ctx, map[string]string{key: "1"})
	if err == nil {
		err = g.kv.Delete(ctx, key)
	}
	if err == nil {
		return true
	}

	g.log.Warn().Err(err).Msg("storage unavailable, running in memory only")

	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()

	g.notify(model.Notice{
		Level:    model.NoticeWarning,
		Message:  "Storage is unavailable. Changes will not survive a restart; use export to keep a copy.",
		Standing: true,
	})
	return false
}

// Load reads the stored collection. It never fails: missing or unreadable
// data yields an empty collection and malformed projects are dropped.
func (g *Gateway) Load(ctx context.Context) model.Collection {
	raw, ok, err := g.kv.Get(ctx, DataKey)
	if err != nil {
		g.log.Error().Err(err).Msg("reading stored projects")
		return model.Collection{}
	}
	if !ok {
		return model.Collection{}
	}

	var rawElems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawElems); err != nil {
		g.log.Error().Err(err).Msg("stored projects are not a JSON array, starting empty")
		return model.Collection{}
	}

	elems := make([]any, 0, len(rawElems))
	for i, re := range rawElems {
		elem, err := decodeElement(re)
		if err != nil {
			g.log.Warn().Err(err).Int("index", i).Msg("dropping invalid stored project")
			continue
		}
		elems = append(elems, elem)
	}

	elems, err = g.migrate(ctx, elems)
	if err != nil {
		g.log.Error().Err(err).Msg("migrating stored projects, starting empty")
		return model.Collection{}
	}

	out := make(model.Collection, 0, len(elems))
	for i, elem := range elems {
		p, err := decodeProject(elem)
		if err != nil {
			g.log.Warn().Err(err).Int("index", i).Msg("dropping invalid stored project")
			continue
		}
		out = append(out, p.Normalize())
	}
	return out
}

// Save writes the collection and the schema version in one atomic KV
// write. It is a no-op when persistence is disabled. On failure the stored
// data is unchanged and a blocking notice is raised.
func (g *Gateway) Save(ctx context.Context, c model.Collection) error {
	if !g.Enabled() {
		return nil
	}

	data, err := encode(c)
	if err != nil {
		return g.saveFailed(fmt.Errorf("encoding projects: %w", err))
	}

	err = g.kv.SetMany(ctx, map[string]string{
		DataKey:    string(data),
		VersionKey: strconv.Itoa(CurrentSchemaVersion),
	})
	if err != nil {
		return g.saveFailed(fmt.Errorf("saving projects: %w", err))
	}
	return nil
}

func (g *Gateway) saveFailed(err error) error {
	g.log.Error().Err(err).Msg("save failed")

	msg := "Could not save your changes. They are kept for this session; export now to avoid losing them."
	if errors.Is(err, store.ErrQuotaExceeded) {
		msg = "Storage is full and your changes were not saved. They are kept for this session; export now and remove old projects."
	}
	g.notify(model.Notice{Level: model.NoticeBlocking, Message: msg})
	return err
}

func (g *Gateway) notify(n model.Notice) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now()
	}
	g.mu.Lock()
	notifier := g.notifier
	g.mu.Unlock()
	notifier.Notify(n)
}

// decodeElement decodes one array element, keeping numbers as json.Number
// so an out-of-range value only fails its own record.
func decodeElement(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var elem any
	if err := dec.Decode(&elem); err != nil {
		return nil, fmt.Errorf("decoding element: %w", err)
	}
	return elem, nil
}

// decodeProject shape-checks a raw element and decodes it into a Project.
func decodeProject(elem any) (model.Project, error) {
	if !model.IsValidProject(elem) {
		if err := model.ShapeError(elem); err != nil {
			return model.Project{}, err
		}
		return model.Project{}, errors.New("not a project object")
	}

	b, err := json.Marshal(elem)
	if err != nil {
		return model.Project{}, fmt.Errorf("re-encoding project: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return model.Project{}, fmt.Errorf("decoding project: %w", err)
	}
	return p, nil
}

// encode serializes c compactly. A nil collection encodes as an empty array.
func encode(c model.Collection) ([]byte, error) {
	if c == nil {
		c = model.Collection{}
	}
	return json.Marshal(c)
}
