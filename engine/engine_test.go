package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMuter struct {
	calls []bool
	err   error
}

func (m *recordingMuter) SetMuted(muted bool) error {
	m.calls = append(m.calls, muted)
	return m.err
}

func TestEvaluateInactiveIsIdle(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, false)

	a, err := e.Evaluate(true)
	require.NoError(t, err)
	assert.Equal(t, None, a)
	assert.Empty(t, m.calls)
	assert.True(t, e.State().InsideAnyZone)
	assert.Equal(t, Inactive, e.Phase())
}

func TestEvaluateMutesOnceInside(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, false)
	e.SetActive(true)

	a, err := e.Evaluate(true)
	require.NoError(t, err)
	assert.Equal(t, Mute, a)
	assert.Equal(t, []bool{true}, m.calls)

	a, err = e.Evaluate(true)
	require.NoError(t, err)
	assert.Equal(t, None, a)
	assert.Len(t, m.calls, 1)
	assert.Equal(t, InZoneMuted, e.Phase())
}

func TestEvaluateUnmutesOutside(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, true)
	e.SetActive(true)
	assert.Equal(t, OutZoneMuted, e.Phase())

	a, err := e.Evaluate(false)
	require.NoError(t, err)
	assert.Equal(t, Unmute, a)
	assert.False(t, e.Muted())
	assert.Equal(t, OutZoneUnmuted, e.Phase())
}

func TestManualOverrideThenReevaluate(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, true)
	e.SetActive(true)
	_, err := e.Evaluate(true)
	require.NoError(t, err)
	require.Empty(t, m.calls)

	a, err := e.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Unmute, a)
	assert.Equal(t, InZoneUnmuted, e.Phase())

	a, err = e.Evaluate(true)
	require.NoError(t, err)
	assert.Equal(t, Mute, a)
	assert.Equal(t, []bool{false, true}, m.calls)
}

func TestToggleIgnoresActive(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, false)

	a, err := e.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Mute, a)
	assert.True(t, e.Muted())
	assert.Equal(t, Inactive, e.Phase())
}

func TestReconcileIsIdempotent(t *testing.T) {
	m := &recordingMuter{}
	e := New(m, false)
	e.SetActive(true)

	assert.True(t, e.Reconcile(true))
	before := e.State()
	assert.False(t, e.Reconcile(true))
	assert.Equal(t, before, e.State())
	assert.Empty(t, m.calls)
}

func TestFailedCommandKeepsState(t *testing.T) {
	m := &recordingMuter{err: errors.New("no sink")}
	e := New(m, false)
	e.SetActive(true)

	a, err := e.Evaluate(true)
	require.Error(t, err)
	assert.Equal(t, Mute, a)
	assert.False(t, e.Muted())

	m.err = nil
	a, err = e.Evaluate(true)
	require.NoError(t, err)
	assert.Equal(t, Mute, a)
	assert.True(t, e.Muted())
}

func TestPhaseStrings(t *testing.T) {
	for p := Inactive; p <= OutZoneMuted; p++ {
		assert.NotEmpty(t, p.String())
	}
	assert.Equal(t, "mute", Mute.String())
	assert.Equal(t, "none", None.String())
}
