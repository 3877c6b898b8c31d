package terminal

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tara-vision/stackhat/internal/project"
)

func newTestInterpreter(delay time.Duration) (*Interpreter, *Log, *Scheduler) {
	log := NewLog()
	sched := NewScheduler()
	return NewInterpreter(log, sched, WithRunDelay(delay)), log, sched
}

func sampleForest() project.Forest {
	return project.BuildTree([]project.FileSpec{
		{Path: "src/index.js", Content: "console.log('hi')"},
		{Path: "package.json", Content: `{"name":"demo"}`},
		{Path: "empty.txt", Content: ""},
	})
}

func TestEveryCommandLogsInputFirst(t *testing.T) {
	for _, input := range []string{"run", "ls", "help", "cat x", "  LS  ", "frobnicate", ""} {
		interp, log, sched := newTestInterpreter(time.Millisecond)
		interp.Execute(input, sampleForest(), "demo")
		sched.Wait()

		entries := log.Entries()
		require.NotEmpty(t, entries, input)
		assert.Equal(t, TypeCommand, entries[0].Type, input)
		assert.Equal(t, input, entries[0].Message, input)

		commands := 0
		for _, e := range entries {
			if e.Type == TypeCommand {
				commands++
			}
		}
		assert.Equal(t, 1, commands, input)
	}
}

func TestListTopLevel(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("DIR", sampleForest(), "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, TypeInfo, entries[1].Type)
	assert.Equal(t, "[DIR]  src\n[FILE] package.json\n[FILE] empty.txt", entries[1].Message)
}

func TestListEmptyForest(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("ls", project.Forest{}, "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, EmptyDirectory, entries[1].Message)
	assert.NotEmpty(t, entries[1].Message)
}

func TestHelp(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute(" Help ", nil, "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, HelpText, entries[1].Message)
}

func TestClearEmptiesLog(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	log.Append("old", TypeInfo)
	interp.Execute("clear", nil, "demo")
	assert.Zero(t, log.Len())
}

func TestCatTopLevelFile(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("cat PACKAGE.JSON", sampleForest(), "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, TypeInfo, entries[1].Type)
	assert.Equal(t, "Reading package.json:\n{\"name\":\"demo\"}...", entries[1].Message)
}

func TestCatTruncatesTo200Characters(t *testing.T) {
	long := strings.Repeat("é", 250)
	forest := project.BuildTree([]project.FileSpec{{Path: "big.txt", Content: long}})

	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("cat big.txt", forest, "demo")

	msg := log.Entries()[1].Message
	body := strings.TrimSuffix(strings.TrimPrefix(msg, "Reading big.txt:\n"), "...")
	assert.Equal(t, 200, len([]rune(body)))
}

func TestCatMissing(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("cat missing.txt", sampleForest(), "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, TypeError, entries[1].Type)
	assert.Contains(t, entries[1].Message, "missing.txt")
}

func TestCatDoesNotRecurse(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("cat index.js", sampleForest(), "demo")
	assert.Equal(t, TypeError, log.Entries()[1].Type)
}

func TestCatFolderOrEmptyFileIsNotFound(t *testing.T) {
	for _, name := range []string{"src", "empty.txt"} {
		interp, log, _ := newTestInterpreter(time.Millisecond)
		interp.Execute("cat "+name, sampleForest(), "demo")
		assert.Equal(t, TypeError, log.Entries()[1].Type, name)
	}
}

func TestUnknownCommandEchoesInput(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("Make Coffee", nil, "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, TypeError, entries[1].Type)
	assert.Contains(t, entries[1].Message, `"Make Coffee"`)
}

func TestUnknownCommandIsNotEscaped(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	input := "say \"hi\"\tnow \\o/"
	interp.Execute(input, nil, "demo")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Command \"say \"hi\"\tnow \\o/\" not recognized. Type \"help\" for a list of commands.", entries[1].Message)
}

func TestCatMissingNameIsNotEscaped(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute(`cat my "draft"\notes.txt`, sampleForest(), "demo")

	assert.Equal(t, `File "my "draft"\notes.txt" not found in root.`, log.Entries()[1].Message)
}

func TestRunQuotesProjectNameAsIs(t *testing.T) {
	interp, log, sched := newTestInterpreter(time.Millisecond)
	interp.Execute("run", nil, `Bob's "Shop"`)
	sched.Wait()

	assert.Equal(t, `Executing project "Bob's "Shop"" runtime environment...`, log.Entries()[2].Message)
}

func TestBareCatIsUnknown(t *testing.T) {
	interp, log, _ := newTestInterpreter(time.Millisecond)
	interp.Execute("cat", nil, "demo")
	assert.Contains(t, log.Entries()[1].Message, "not recognized")
}

func TestRunSchedulesDeferredSuccess(t *testing.T) {
	interp, log, sched := newTestInterpreter(10 * time.Millisecond)
	interp.Execute("start", nil, "demo")

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, TypeInfo, entries[1].Type)
	assert.Equal(t, TypeProcess, entries[2].Type)
	assert.Contains(t, entries[2].Message, `"demo"`)

	sched.Wait()
	entries = log.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, TypeSuccess, entries[3].Type)
}

func TestDeferredRunEntrySurvivesClear(t *testing.T) {
	interp, log, sched := newTestInterpreter(20 * time.Millisecond)
	interp.Execute("run", nil, "demo")
	interp.Execute("clear", nil, "demo")
	assert.Zero(t, log.Len())

	sched.Wait()
	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, TypeSuccess, entries[0].Type)
}

func TestSchedulerInvalidateDropsPendingTasks(t *testing.T) {
	sched := NewScheduler()
	var mu sync.Mutex
	fired := 0

	sched.After(20*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	sched.Invalidate()
	sched.After(time.Millisecond, func() {
		mu.Lock()
		fired += 10
		mu.Unlock()
	})
	sched.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, fired)
}

type recordingObserver struct {
	mu       sync.Mutex
	appended []Entry
	cleared  int
}

func (r *recordingObserver) EntryAppended(e Entry) {
	r.mu.Lock()
	r.appended = append(r.appended, e)
	r.mu.Unlock()
}

func (r *recordingObserver) LogCleared() {
	r.mu.Lock()
	r.cleared++
	r.mu.Unlock()
}

func TestLogNotifiesObservers(t *testing.T) {
	log := NewLog()
	obs := &recordingObserver{}
	log.Watch(obs)

	first := log.Append("one", TypeInfo)
	second := log.Append("two", TypeError)
	log.Clear()

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, obs.appended, 2)
	assert.Equal(t, 1, obs.cleared)
	_, err := time.Parse(TimestampFormat, first.Timestamp)
	assert.NoError(t, err)
}
