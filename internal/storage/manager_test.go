package storage

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tara-vision/stackhat/internal/project"
)

func newTestManager(t *testing.T) (*Manager, afero.Fs) {
	fs := afero.NewMemMapFs()
	m, err := NewManager(fs, "/data/.stackhat")
	require.NoError(t, err)
	return m, fs
}

func TestProjectRoundTrip(t *testing.T) {
	m, fs := newTestManager(t)

	p, err := m.LoadProject()
	require.NoError(t, err)
	assert.Nil(t, p)

	forest := project.BuildTree([]project.FileSpec{
		{Path: "src/app.js", Content: "X"},
		{Path: "README.md", Content: "# hi"},
	})
	saved := &Project{Name: "Demo", Nodes: forest}
	require.NoError(t, m.SaveProject(saved))
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.LastSaved.IsZero())

	raw, err := afero.ReadFile(fs, "/data/.stackhat/autosave.json")
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "lastSaved")
	assert.Contains(t, generic, "nodes")

	loaded, err := m.LoadProject()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Demo", loaded.Name)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, "X", loaded.Nodes.Find("src/app.js").Text())
	assert.Equal(t, project.TypeFolder, loaded.Nodes[0].Type)
}

func TestDeleteProject(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.DeleteProject())

	require.NoError(t, m.SaveProject(&Project{Name: "Demo"}))
	require.NoError(t, m.DeleteProject())

	p, err := m.LoadProject()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfileRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	p, err := m.LoadProfile()
	require.NoError(t, err)
	assert.Nil(t, p)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, m.SaveProfile(&Profile{PIN: "hash", CreatedAt: created}))

	p, err = m.LoadProfile()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "hash", p.PIN)
	assert.True(t, created.Equal(p.CreatedAt))
}

func TestCorruptRecordIsAnError(t *testing.T) {
	m, fs := newTestManager(t)
	require.NoError(t, afero.WriteFile(fs, "/data/.stackhat/autosave.json", []byte("{nope"), 0644))

	_, err := m.LoadProject()
	assert.Error(t, err)
}

type countingSaver struct {
	mu    sync.Mutex
	saves []Project
	err   error
}

func (c *countingSaver) SaveProject(p *Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if p.ID == "" {
		p.ID = "generated"
	}
	c.saves = append(c.saves, *p)
	return nil
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saves)
}

func TestAutosaverDebounces(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, 20*time.Millisecond, nil)

	for i := 0; i < 5; i++ {
		a.Schedule(Project{Name: "v" + string(rune('0'+i))})
	}
	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, "v4", saver.saves[0].Name)
}

func TestAutosaverFlushAndCancel(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, time.Hour, nil)

	a.Schedule(Project{Name: "first"})
	require.NoError(t, a.Flush())
	require.Equal(t, 1, saver.count())

	a.Schedule(Project{Name: "second"})
	require.NoError(t, a.Flush())
	assert.Equal(t, "generated", saver.saves[1].ID, "ID is kept across saves")

	a.Schedule(Project{Name: "dropped"})
	a.Cancel()
	require.NoError(t, a.Flush())
	assert.Equal(t, 2, saver.count())
}

func TestAutosaverFlushError(t *testing.T) {
	saver := &countingSaver{err: errors.New("disk full")}
	a := NewAutosaver(saver, time.Hour, nil)

	a.Schedule(Project{Name: "x"})
	assert.EqualError(t, a.Flush(), "disk full")
}

type blockingSaver struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	events []string
	ids    []string
}

func (b *blockingSaver) SaveProject(p *Project) error {
	b.entered <- struct{}{}
	<-b.release

	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids = append(b.ids, p.ID)
	if p.ID == "" {
		p.ID = "id-" + p.Name
	}
	b.events = append(b.events, "saved "+p.Name)
	return nil
}

func (b *blockingSaver) record(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func TestAutosaverCancelWaitsForInFlightSave(t *testing.T) {
	saver := &blockingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	a := NewAutosaver(saver, time.Hour, nil)

	a.Schedule(Project{Name: "old"})
	go a.Flush()
	<-saver.entered

	cancelled := make(chan struct{})
	go func() {
		a.Cancel()
		saver.record("cancelled")
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("Cancel returned while a save was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(saver.release)
	<-cancelled

	assert.Equal(t, []string{"saved old", "cancelled"}, saver.events)

	// the ID of the cancelled project is not reused
	a.Schedule(Project{Name: "fresh"})
	go func() { <-saver.entered }()
	require.NoError(t, a.Flush())
	assert.Equal(t, []string{"", ""}, saver.ids)
}

func TestAutosaverFlushesAreSerialized(t *testing.T) {
	saver := &blockingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	a := NewAutosaver(saver, time.Hour, nil)

	a.Schedule(Project{Name: "older"})
	go a.Flush()
	<-saver.entered

	a.Schedule(Project{Name: "newer"})
	flushed := make(chan error, 1)
	go func() { flushed <- a.Flush() }()

	close(saver.release)
	<-saver.entered
	require.NoError(t, <-flushed)

	assert.Equal(t, []string{"saved older", "saved newer"}, saver.events)
}
