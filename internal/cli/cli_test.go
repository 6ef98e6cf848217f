package cli

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/logging"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

func TestKeyMove(t *testing.T) {
	tests := []struct {
		key  string
		want twisty.Move
	}{
		{"r", twisty.R},
		{"R", twisty.RPrime},
		{"m", twisty.M},
		{"E", twisty.E.Inverse()},
		{"x", twisty.X},
		{"Z", twisty.Z.Inverse()},
	}
	for _, tt := range tests {
		got, ok := keyMove(tt.key)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	for _, k := range []string{"q", "ctrl+z", "1", ""} {
		_, ok := keyMove(k)
		assert.False(t, ok, k)
	}
}

func TestParseArgs(t *testing.T) {
	moves, err := parseArgs([]string{"R U", "R'", "Rw2"})
	require.NoError(t, err)
	assert.Equal(t, "R U R' r2", twisty.FormatMoves(moves))

	_, err = parseArgs([]string{"R", "Q"})
	assert.ErrorIs(t, err, twisty.ErrInvalidNotation)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----]", progressBar(0, 4))
	assert.Equal(t, "[##--]", progressBar(0.5, 4))
	assert.Equal(t, "[####]", progressBar(1, 4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5.0s", formatDuration(125*time.Second))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestAnimModelKeysAndFrames(t *testing.T) {
	seq := twisty.NewSequencer(twisty.NewAssembly(twisty.DefaultCubieSize),
		twisty.WithMoveDuration(20*time.Millisecond))
	m := newAnimModel("test", seq, 10*time.Millisecond)
	m.keys = true

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	mv, ok := seq.Active()
	require.True(t, ok)
	assert.Equal(t, twisty.R, mv)

	start := time.Now()
	for i := 0; i < 4; i++ {
		m.Update(frameMsg(start.Add(time.Duration(i) * 10 * time.Millisecond)))
	}
	assert.Equal(t, twisty.StateIdle, seq.State())
	assert.False(t, seq.Assembly().IsSolved())

	// Undo returns to solved.
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	for i := 4; i < 8; i++ {
		m.Update(frameMsg(start.Add(time.Duration(i) * 10 * time.Millisecond)))
	}
	assert.True(t, seq.Assembly().IsSolved())
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "SOLVED")
}

func TestAnimModelFlushesInbox(t *testing.T) {
	seq := twisty.NewSequencer(twisty.NewAssembly(twisty.DefaultCubieSize),
		twisty.WithMoveDuration(0))
	m := newAnimModel("test", seq, 10*time.Millisecond)
	m.inbox = twisty.NewInbox()
	m.inbox.Post(twisty.SexyMove...)

	start := time.Now()
	for i := 0; i < 6; i++ {
		m.Update(frameMsg(start.Add(time.Duration(i) * 10 * time.Millisecond)))
	}
	assert.Len(t, seq.Completed(), 4)
	assert.Equal(t, 0, m.inbox.Len())
}

func TestAnimModelQuitWhenIdle(t *testing.T) {
	seq := twisty.NewSequencer(twisty.NewAssembly(twisty.DefaultCubieSize))
	m := newAnimModel("test", seq, 10*time.Millisecond)
	m.quitWhenIdle = true

	_, cmd := m.Update(frameMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestEndSessionLogsFailure(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	rt := &runtime{logger: logging.NewWriter(&buf, slog.LevelDebug)}

	session := recorder.NewSession(db, nil)
	_, err = session.Start(storage.SourceSimulator, "", "", version)
	require.NoError(t, err)

	rt.endSession(session)
	assert.Equal(t, recorder.StateEnded, session.State())
	assert.Empty(t, buf.String())

	// Ending twice fails and is logged.
	rt.endSession(session)
	assert.Contains(t, buf.String(), "failed to end session")
	assert.Contains(t, buf.String(), recorder.ErrNotRecording.Error())
}
