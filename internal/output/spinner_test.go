package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinWithoutTerminalRunsDirectly(t *testing.T) {
	var buf bytes.Buffer
	calls := 0

	err := Spin(&buf, "Augmenting", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, buf.String(), "no spinner frames on a non-terminal writer")

	boom := errors.New("boom")
	err = Spin(&buf, "Augmenting", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSpinnerModel(t *testing.T) {
	m := newSpinnerModel("Augmenting models")
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Augmenting models...")

	_, cmd := m.Update(spinner.TickMsg{})
	assert.False(t, m.done)
	_ = cmd

	next, cmd := m.Update(spinnerDoneMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	done := next.(*spinnerModel)
	assert.True(t, done.done)
	assert.Contains(t, done.View(), "✓ Augmenting models")

	failed := newSpinnerModel("Loading")
	failed.Update(spinnerDoneMsg{err: errors.New("bad")})
	assert.Contains(t, failed.View(), "✗ Loading")
}
