package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Migration upgrades raw stored projects to Version. Apply receives the
// elements of the stored array as decoded by encoding/json, with numbers
// as json.Number.
type Migration struct {
	Version int
	Apply   func(elems []any) ([]any, error)
}

func sortMigrations(ms []Migration) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Version < ms[j].Version })
}

// storedVersion reads the version marker. A missing or unparseable marker
// counts as version 0.
func (g *Gateway) storedVersion(ctx context.Context) (int, error) {
	raw, ok, err := g.kv.Get(ctx, VersionKey)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		g.log.Warn().Str("value", raw).Msg("ignoring malformed schema version")
		return 0, nil
	}
	return v, nil
}

// migrate runs every registered migration newer than the stored version, in
// order, then records the result. A failed write of the upgraded data is
// logged and the migrated elements are still used for this session.
func (g *Gateway) migrate(ctx context.Context, elems []any) ([]any, error) {
	from, err := g.storedVersion(ctx)
	if err != nil {
		return nil, err
	}
	if from >= CurrentSchemaVersion {
		return elems, nil
	}

	ran := 0
	for _, m := range g.migrations {
		if m.Version <= from {
			continue
		}
		elems, err = m.Apply(elems)
		if err != nil {
			return nil, fmt.Errorf("applying data migration v%d: %w", m.Version, err)
		}
		ran++
	}

	entries := map[string]string{VersionKey: strconv.Itoa(CurrentSchemaVersion)}
	if ran > 0 {
		data, err := json.Marshal(elems)
		if err != nil {
			return nil, fmt.Errorf("encoding migrated projects: %w", err)
		}
		entries[DataKey] = string(data)
	}

	if g.Enabled() {
		if err := g.kv.SetMany(ctx, entries); err != nil {
			g.log.Warn().Err(err).Msg("recording schema version")
		}
	}

	g.log.Info().Int("from", from).Int("to", CurrentSchemaVersion).Int("migrations", ran).
		Msg("upgraded stored projects")
	return elems, nil
}
