package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonny-io/fonny/internal/event"
	"github.com/fonny-io/fonny/internal/logging"
)

func openTestArchive(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_RecordAndReadBack(t *testing.T) {
	s := openTestArchive(t)

	require.NoError(t, s.Record(event.NewConnectionOpened()))
	require.NoError(t, s.Record(event.NewUserCommand("2 2 +\n")))
	require.NoError(t, s.Record(event.NewSystemResponse("4  ok")))

	events, err := s.AllEvents()
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, event.KindConnectionOpened, events[0].Kind)
	assert.Equal(t, event.KindUserCommand, events[1].Kind)
	assert.Equal(t, "2 2 +\n", events[1].Payload["command"])
	assert.Equal(t, event.KindSystemResponse, events[2].Kind)
	assert.Equal(t, "4  ok", events[2].Payload["response"])

	// Ids reproduce recording order.
	assert.Less(t, events[0].ID, events[1].ID)
	assert.Less(t, events[1].ID, events[2].ID)
}

func TestSQLite_FilterByKind(t *testing.T) {
	s := openTestArchive(t)

	require.NoError(t, s.Record(event.NewUserCommand("words\n")))
	require.NoError(t, s.Record(event.NewSystemResponse("ok")))
	require.NoError(t, s.Record(event.NewUserCommand("bye\n")))

	commands, err := s.Events(event.KindUserCommand)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "words\n", commands[0].Payload["command"])
	assert.Equal(t, "bye\n", commands[1].Payload["command"])
}

func TestSQLite_TimestampsRoundTrip(t *testing.T) {
	s := openTestArchive(t)

	original := event.NewSystemError("port closed")
	require.NoError(t, s.Record(original))

	events, err := s.AllEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(original.Timestamp))
}

func TestSQLite_Clear(t *testing.T) {
	s := openTestArchive(t)

	require.NoError(t, s.Record(event.NewConnectionOpened()))
	require.NoError(t, s.Clear())

	events, err := s.AllEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLite_SchemaSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(event.NewConnectionOpened()))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.AllEvents()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Record(event.NewUserCommand("words\n")))
	require.NoError(t, m.Record(event.NewSystemResponse("ok")))

	assert.Equal(t, 2, m.Len())
	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, event.KindUserCommand, events[0].Kind)

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestMemory_EventsReturnsCopy(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Record(event.NewSystemResponse("ok")))

	events := m.Events()
	events[0] = event.NewSystemError("mutated")

	assert.Equal(t, event.KindSystemResponse, m.Events()[0].Kind)
}

func TestLogSink(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelInfo)
	require.NoError(t, err)

	sink := NewLogSink(logger)
	require.NoError(t, sink.Record(event.NewSystemResponse("ok 4")))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "fonny.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "system.response")
	assert.Contains(t, string(data), "ok 4")
}

func TestLogSink_NilLogger(t *testing.T) {
	sink := NewLogSink(nil)
	assert.NoError(t, sink.Record(event.NewConnectionOpened()))
}
