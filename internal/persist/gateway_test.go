package persist_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/persist"
	"github.com/nhle/project-tracker/internal/store"
)

type recorder struct {
	notices []model.Notice
}

func (r *recorder) Notify(n model.Notice) { r.notices = append(r.notices, n) }

// brokenKV fails every write.
type brokenKV struct {
	*store.MemoryKV
}

func (brokenKV) SetMany(context.Context, map[string]string) error {
	return errors.New("disk on fire")
}

func strPtr(s string) *string { return &s }

func sampleCollection() model.Collection {
	return model.Collection{
		{
			ID: 1, Title: "Website", Description: "redesign", Priority: model.PriorityHigh,
			DueDate: strPtr("2024-06-30"),
			TodoLists: []model.TodoList{
				{ID: 1, Title: "Design", Priority: model.PriorityMedium, Todos: []model.TodoItem{
					{ID: 1, Text: "mockups", Details: "figma", Completed: true, Priority: model.PriorityHigh},
					{ID: 2, Text: "review", Priority: model.PriorityLow},
				}},
			},
		},
		{ID: 2, Title: "Mobile", Priority: model.PriorityLow, TodoLists: []model.TodoList{}},
	}
}

func TestLoadMissingDataIsEmpty(t *testing.T) {
	g := persist.NewGateway(store.NewMemoryKV())

	c := g.Load(context.Background())
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestLoadUnparseableIsEmpty(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{"{not json", `{"id":1}`, `"text"`} {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.SetMany(ctx, map[string]string{persist.DataKey: raw}))

		var buf bytes.Buffer
		g := persist.NewGateway(kv, persist.WithLogger(zerolog.New(&buf)))

		assert.Empty(t, g.Load(ctx), raw)
		assert.Contains(t, buf.String(), `"level":"error"`, raw)
	}
}

func TestLoadDropsInvalidElements(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		persist.DataKey: `[{"id":1,"title":"ok"}, {"bad":true}, 42, {"id":1.5,"title":"frac"}]`,
	}))

	var buf bytes.Buffer
	g := persist.NewGateway(kv, persist.WithLogger(zerolog.New(&buf)))

	c := g.Load(ctx)

	require.Len(t, c, 1)
	assert.Equal(t, 1, c[0].ID)
	assert.Equal(t, "ok", c[0].Title)
	assert.Equal(t, model.PriorityMedium, c[0].Priority)
	assert.NotNil(t, c[0].TodoLists)
	assert.Equal(t, 3, strings.Count(buf.String(), "dropping invalid stored project"))
}

func TestLoadKeepsValidProjectsBesideOutOfRangeNumbers(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		persist.DataKey: `[{"id":1,"title":"ok"},{"id":1e400,"title":"x"},{"id":2,"title":"big","description":"","todoLists":[{"id":1e999}]}]`,
	}))

	var buf bytes.Buffer
	g := persist.NewGateway(kv, persist.WithLogger(zerolog.New(&buf)))

	c := g.Load(ctx)

	require.Len(t, c, 1)
	assert.Equal(t, "ok", c[0].Title)
	assert.Equal(t, 2, strings.Count(buf.String(), "dropping invalid stored project"))
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	g := persist.NewGateway(kv)

	require.NoError(t, g.Save(ctx, sampleCollection()))

	v, ok, err := kv.Get(ctx, persist.VersionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", v)

	assert.Equal(t, sampleCollection(), g.Load(ctx))
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	g := persist.NewGateway(kv)

	require.NoError(t, g.Save(ctx, nil))

	v, _, err := kv.Get(ctx, persist.DataKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSaveQuotaFailureKeepsPriorBlob(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV(store.WithQuota(2048))
	rec := &recorder{}
	g := persist.NewGateway(kv, persist.WithNotifier(rec))

	small := sampleCollection()
	require.NoError(t, g.Save(ctx, small))
	before, _, err := kv.Get(ctx, persist.DataKey)
	require.NoError(t, err)

	big := small.Clone()
	big[0].Description = strings.Repeat("x", 4096)
	err = g.Save(ctx, big)
	require.ErrorIs(t, err, store.ErrQuotaExceeded)

	after, _, err := kv.Get(ctx, persist.DataKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.Len(t, rec.notices, 1)
	assert.Equal(t, model.NoticeBlocking, rec.notices[0].Level)
	assert.Contains(t, rec.notices[0].Message, "export")
}

func TestProbeFailureDisablesPersistence(t *testing.T) {
	ctx := context.Background()
	kv := brokenKV{store.NewMemoryKV()}
	rec := &recorder{}
	g := persist.NewGateway(kv, persist.WithNotifier(rec))

	assert.False(t, g.ProbeAvailability(ctx))
	assert.False(t, g.Enabled())

	require.Len(t, rec.notices, 1)
	assert.Equal(t, model.NoticeWarning, rec.notices[0].Level)
	assert.True(t, rec.notices[0].Standing)

	assert.NoError(t, g.Save(ctx, sampleCollection()), "saves are skipped when disabled")
	assert.Len(t, rec.notices, 1)
}

func TestProbeSuccessLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	g := persist.NewGateway(kv)

	assert.True(t, g.ProbeAvailability(ctx))
	assert.True(t, g.Enabled())

	size, err := kv.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestMigrationsRunOncePerLoad(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		persist.DataKey: `[{"id":1,"name":"legacy"}]`,
	}))

	calls := 0
	renameTitle := persist.Migration{
		Version: 1,
		Apply: func(elems []any) ([]any, error) {
			calls++
			for _, e := range elems {
				if m, ok := e.(map[string]any); ok {
					m["title"] = m["name"]
					delete(m, "name")
				}
			}
			return elems, nil
		},
	}
	g := persist.NewGateway(kv, persist.WithMigrations(renameTitle))

	c := g.Load(ctx)
	require.Len(t, c, 1)
	assert.Equal(t, "legacy", c[0].Title)
	assert.Equal(t, 1, calls)

	v, _, err := kv.Get(ctx, persist.VersionKey)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// The marker is current now, so a second load does not migrate again.
	c = g.Load(ctx)
	require.Len(t, c, 1)
	assert.Equal(t, "legacy", c[0].Title)
	assert.Equal(t, 1, calls)
}

func TestMigrationsSkipCurrentData(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	g := persist.NewGateway(kv, persist.WithMigrations(persist.Migration{
		Version: 1,
		Apply: func([]any) ([]any, error) {
			t.Fatal("migration must not run")
			return nil, nil
		},
	}))

	require.NoError(t, g.Save(ctx, sampleCollection()))
	assert.Len(t, g.Load(ctx), 2)
}

func TestCheckSizeWarning(t *testing.T) {
	rec := &recorder{}
	g := persist.NewGateway(store.NewMemoryKV(),
		persist.WithSizeThreshold(256),
		persist.WithNotifier(rec),
	)

	size, exceeded := g.CheckSizeWarning(model.Collection{{ID: 1, Title: "small"}})
	assert.False(t, exceeded)
	assert.Positive(t, size)
	assert.Empty(t, rec.notices)

	big := model.Collection{{ID: 1, Title: strings.Repeat("y", 300)}}
	size, exceeded = g.CheckSizeWarning(big)
	assert.True(t, exceeded)
	assert.Greater(t, size, 256)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, model.NoticeWarning, rec.notices[0].Level)
	assert.Contains(t, rec.notices[0].Message, "exporting")

	g.SetSizeThreshold(0)
	_, exceeded = g.CheckSizeWarning(big)
	assert.False(t, exceeded, "zero threshold turns the warning off")
	assert.Len(t, rec.notices, 1)
}

func TestExportFormat(t *testing.T) {
	g := persist.NewGateway(store.NewMemoryKV())

	data, err := g.Export(model.Collection{{ID: 1, Title: "a", Priority: model.PriorityLow, TodoLists: []model.TodoList{}}})
	require.NoError(t, err)

	want := `[
  {
    "id": 1,
    "title": "a",
    "description": "",
    "priority": "low",
    "dueDate": null,
    "todoLists": []
  }
]
`
	assert.Equal(t, want, string(data))

	empty, err := g.Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestExportImportRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := persist.NewGateway(store.NewMemoryKV(), persist.WithFs(fs))

	path, err := g.ExportToFile(sampleCollection(), "/backups/projects.json")
	require.NoError(t, err)
	assert.Equal(t, "/backups/projects.json", path)

	entries, err := afero.ReadDir(fs, "/backups")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be renamed away")

	got, err := g.ImportFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCollection(), got)
}

func TestExportDefaultName(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := persist.NewGateway(store.NewMemoryKV(), persist.WithFs(fs))

	path, err := g.ExportToFile(model.Collection{}, "")
	require.NoError(t, err)
	assert.Equal(t, persist.DefaultExportName, path)

	ok, err := afero.Exists(fs, persist.DefaultExportName)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestImportErrors(t *testing.T) {
	g := persist.NewGateway(store.NewMemoryKV(), persist.WithFs(afero.NewMemMapFs()))

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"object", `{"id":1,"title":"x"}`, "not an array"},
		{"number", `42`, "not an array"},
		{"garbage", `hello`, "not valid JSON"},
		{"truncated", `[{"id":1`, "not valid JSON"},
		{"empty", ``, "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Import([]byte(tt.input))

			var ie *persist.ImportError
			require.ErrorAs(t, err, &ie)
			assert.Contains(t, ie.Error(), tt.reason)
		})
	}

	_, err := g.ImportFromFile("/nope.json")
	var ie *persist.ImportError
	require.ErrorAs(t, err, &ie)
}

func TestImportFillsDefaultPriorities(t *testing.T) {
	g := persist.NewGateway(store.NewMemoryKV())

	c, err := g.Import([]byte(`[{"id":1,"title":"x","todoLists":[{"id":1,"title":"l","todos":[{"id":1,"text":"t"}]}]}]`))
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, model.PriorityMedium, c[0].Priority)
	assert.Equal(t, model.PriorityMedium, c[0].TodoLists[0].Priority)
	assert.Equal(t, model.PriorityMedium, c[0].TodoLists[0].Todos[0].Priority)
}

func TestImportAcceptsByteOrderMark(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := persist.NewGateway(store.NewMemoryKV(), persist.WithFs(fs))

	data, err := g.Export(sampleCollection())
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/bom.json", append([]byte("\ufeff"), data...), 0o644))

	got, err := g.ImportFromFile("/bom.json")
	require.NoError(t, err)
	assert.Equal(t, sampleCollection(), got)
}

func TestImportSkipsShapeValidation(t *testing.T) {
	g := persist.NewGateway(store.NewMemoryKV())

	c, err := g.Import([]byte(`[{"title":"no id"}, {}]`))
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, 0, c[0].ID)
	assert.Equal(t, "no id", c[0].Title)
}
