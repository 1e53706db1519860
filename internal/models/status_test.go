package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusInProgress, StatusBlocked, StatusDone} {
		t.Run(s.String(), func(t *testing.T) {
			assert.Equal(t, s, ParseStatus(s.String()))
		})
	}
}

func TestStatus_Tokens(t *testing.T) {
	assert.Equal(t, "TODO", StatusTodo.String())
	assert.Equal(t, "INPROGRESS", StatusInProgress.String())
	assert.Equal(t, "BLOCKED", StatusBlocked.String())
	assert.Equal(t, "DONE", StatusDone.String())
}

func TestParseStatus_UnknownFallsBackToTodo(t *testing.T) {
	for _, token := range []string{"", "done", "In Progress", "IN_PROGRESS", "ARCHIVED", " DONE"} {
		assert.Equal(t, StatusTodo, ParseStatus(token), "token %q", token)
	}
}

func TestStatus_OutOfRangeEncodesAsTodo(t *testing.T) {
	assert.Equal(t, "TODO", Status(42).String())
	assert.Equal(t, "TODO", Status(-1).String())
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{StatusBlocked})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"BLOCKED"}`, string(data))

	var in struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"INPROGRESS"}`), &in))
	assert.Equal(t, StatusInProgress, in.Status)

	in.Status = StatusDone
	require.NoError(t, json.Unmarshal([]byte(`{"status":"bogus"}`), &in))
	assert.Equal(t, StatusTodo, in.Status)
}
