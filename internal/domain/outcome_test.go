package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskState_IsTerminal(t *testing.T) {
	assert.False(t, TaskStateInProgress.IsTerminal())
	assert.True(t, TaskStateCompleted.IsTerminal())
	assert.True(t, TaskStateFailed.IsTerminal())
	assert.True(t, TaskStateTimedOut.IsTerminal())
}

func TestOutcomeConstructors(t *testing.T) {
	c := Completed("PROCESSED", nil)
	assert.Equal(t, TaskStateCompleted, c.State)
	assert.NotNil(t, c.URLs, "completed outcome should never carry a nil URL list")

	f := Failed("ERROR", "out of credits")
	assert.Equal(t, TaskStateFailed, f.State)
	assert.Equal(t, "out of credits", f.Reason)

	to := TimedOut("t1", "ENHANCING")
	assert.Equal(t, TaskStateTimedOut, to.State)
	assert.Equal(t, TaskHandle("t1"), to.Handle)
	assert.Equal(t, "ENHANCING", to.Status)

	tagged := InProgress("QUEUED").WithHandle("t2")
	assert.Equal(t, TaskHandle("t2"), tagged.Handle)
	assert.Equal(t, TaskStateInProgress, tagged.State)
}
