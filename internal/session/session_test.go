package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/engine"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/persist"
	"github.com/nhle/project-tracker/internal/session"
	"github.com/nhle/project-tracker/internal/store"
	"github.com/nhle/project-tracker/tests/testutil"
)

// countingKV counts successful data writes.
type countingKV struct {
	store.KV
	writes int
	fail   bool
}

func (c *countingKV) SetMany(ctx context.Context, entries map[string]string) error {
	if c.fail {
		return errors.New("write refused")
	}
	if _, ok := entries[persist.DataKey]; ok {
		c.writes++
	}
	return c.KV.SetMany(ctx, entries)
}

func open(t *testing.T, kv store.KV, opts ...persist.Option) (*session.Session, *persist.Gateway) {
	t.Helper()
	gw := persist.NewGateway(kv, opts...)
	return session.Open(context.Background(), gw, zerolog.Nop()), gw
}

func seeded(t *testing.T) *countingKV {
	t.Helper()
	kv := &countingKV{KV: testutil.NewTestKV(t)}
	gw := persist.NewGateway(kv)
	require.NoError(t, gw.Save(context.Background(), testutil.SampleCollection()))
	kv.writes = 0
	return kv
}

func TestOpenLoadsStoredCollection(t *testing.T) {
	kv := seeded(t)
	s, _ := open(t, kv)

	assert.Equal(t, testutil.SampleCollection(), s.Snapshot())
	assert.True(t, s.PersistenceEnabled())
	assert.Empty(t, s.Notices())
}

func TestApplySavesChanges(t *testing.T) {
	ctx := context.Background()
	kv := seeded(t)
	s, gw := open(t, kv)

	got := s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.AddProject(c, "Launch", "", model.PriorityHigh, nil)
	})

	require.Len(t, got, 3)
	assert.Equal(t, 1, kv.writes)
	assert.Equal(t, got, gw.Load(ctx))
}

func TestApplyNoOpDoesNotSave(t *testing.T) {
	ctx := context.Background()
	kv := seeded(t)
	s, _ := open(t, kv)

	got := s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.DeleteProject(c, 404)
	})
	assert.Equal(t, testutil.SampleCollection(), got)

	s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.AddProject(c, "   ", "", model.PriorityLow, nil)
	})
	assert.Zero(t, kv.writes)
}

func TestApplyToggleAcrossProjects(t *testing.T) {
	kv := seeded(t)
	s, _ := open(t, kv)

	got := s.Apply(context.Background(), func(c model.Collection) model.Collection {
		return engine.ToggleTodo(c, 5)
	})

	assert.True(t, got[0].TodoLists[0].Todos[0].Completed)
	assert.True(t, got[1].TodoLists[0].Todos[0].Completed)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := open(t, seeded(t))

	snap := s.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, "Website Redesign", s.Snapshot()[0].Title)
}

func TestSortedUsesDisplayOrder(t *testing.T) {
	s, _ := open(t, seeded(t))

	sorted := s.Sorted()
	assert.Equal(t, []int{1, 2}, sorted.ProjectIDs())
	assert.Equal(t, []int{1, 2}, sorted[0].ListIDs())
	assert.Equal(t, []int{5, 6}, sorted[0].TodoLists[0].TodoIDs())

	s.Apply(context.Background(), func(c model.Collection) model.Collection {
		return engine.UpdateProjectPriority(c, 1, model.PriorityLow)
	})
	assert.Equal(t, []int{2, 1}, s.Sorted().ProjectIDs())
	assert.Equal(t, []int{1, 2}, s.Snapshot().ProjectIDs())
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := seeded(t)
	s, gw := open(t, kv)
	kv.fail = true

	got := s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.DeleteProject(c, 1)
	})

	require.Len(t, got, 1)
	assert.Equal(t, got, s.Snapshot())
	assert.Len(t, gw.Load(ctx), 2, "stored data is untouched")

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeBlocking, notices[0].Level)
	assert.Empty(t, s.Notices(), "notices are drained")
}

func TestMemoryOnlyWhenProbeFails(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: store.NewMemoryKV(), fail: true}
	s, _ := open(t, kv)

	assert.False(t, s.PersistenceEnabled())
	assert.Empty(t, s.Snapshot())

	got := s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.AddProject(c, "Offline", "", model.PriorityMedium, nil)
	})
	require.Len(t, got, 1)

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeWarning, notices[0].Level)
	assert.True(t, notices[0].Standing)
	assert.Len(t, s.StandingNotices(), 1)
}

func TestImportReplacesCollection(t *testing.T) {
	ctx := context.Background()
	kv := seeded(t)
	s, gw := open(t, kv)

	err := s.Import(ctx, []byte(`[{"id":7,"title":"Imported","description":"","priority":"low","dueDate":null,"todoLists":[]}]`))
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 7, snap[0].ID)
	assert.Equal(t, 1, kv.writes)
	assert.Equal(t, snap, gw.Load(ctx))

	// Intents after the import see the imported collection.
	got := s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.AddProject(c, "Next", "", model.PriorityLow, nil)
	})
	assert.Equal(t, []int{7, 8}, got.ProjectIDs())
}

func TestImportRejectionLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := seeded(t)
	s, _ := open(t, kv)

	err := s.Import(ctx, []byte(`{"id":1,"title":"not an array"}`))

	var ie *persist.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, testutil.SampleCollection(), s.Snapshot())
	assert.Zero(t, kv.writes)

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeBlocking, notices[0].Level)
}

func TestExportFileThenImportFile(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s, _ := open(t, seeded(t), persist.WithFs(fs))

	path, err := s.ExportFile("/tmp/out.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.json", path)

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeInfo, notices[0].Level)
	assert.Contains(t, notices[0].Message, "/tmp/out.json")

	s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.DeleteProject(c, 1)
	})
	require.NoError(t, s.ImportFile(ctx, path))
	assert.Equal(t, testutil.SampleCollection(), s.Snapshot())
}

func TestSizeWarningBeforeSave(t *testing.T) {
	ctx := context.Background()
	s, _ := open(t, seeded(t), persist.WithSizeThreshold(64))

	s.Apply(ctx, func(c model.Collection) model.Collection {
		return engine.UpdateProjectDetails(c, 2, "Mobile App v2", "")
	})

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, model.NoticeWarning, notices[0].Level)
	assert.Len(t, s.Snapshot(), 2)
}
