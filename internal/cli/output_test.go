package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/plank/internal/services/board"
	"github.com/dkarpov/plank/internal/services/item"
	"github.com/dkarpov/plank/internal/services/project"
)

type idHolder struct {
	ID string `json:"id"`
}

func (h idHolder) GetID() string { return h.ID }

func TestFormatterQuietPrintsID(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Quiet: true, Out: &out}

	require.NoError(t, f.Success(idHolder{ID: "abc123"}))
	assert.Equal(t, "abc123\n", out.String())
}

func TestFormatterJSONSuccess(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{JSON: true, Out: &out}

	require.NoError(t, f.Success(idHolder{ID: "abc123"}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
}

func TestFormatterJSONError(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{JSON: true, Out: &out}

	require.NoError(t, f.ErrorWithSuggestion("NOT_FOUND", "no such card", "check the id"))

	var decoded struct {
		Success bool `json:"success"`
		Error   struct {
			Code       string `json:"code"`
			Message    string `json:"message"`
			Suggestion string `json:"suggestion"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, "NOT_FOUND", decoded.Error.Code)
	assert.Equal(t, "no such card", decoded.Error.Message)
	assert.Equal(t, "check the id", decoded.Error.Suggestion)
}

func TestFormatterHumanErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Out: &out, Err: &errOut}

	require.NoError(t, f.Error("ANY", "something broke"))
	assert.Empty(t, out.String())
	assert.True(t, strings.Contains(errOut.String(), "something broke"))
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitNotFound, exitCodeFor(project.ErrProjectNotFound))
	assert.Equal(t, ExitNotFound, exitCodeFor(board.ErrStageNotFound))
	assert.Equal(t, ExitNotFound, exitCodeFor(board.ErrBoardNotOpened))
	assert.Equal(t, ExitValidation, exitCodeFor(item.ErrInvalidStatus))
	assert.Equal(t, ExitValidation, exitCodeFor(board.ErrInvalidCardType))
	assert.Equal(t, ExitError, exitCodeFor(assert.AnError))
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	want := []string{"project", "item", "stage", "card", "note", "history"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "command %q should exist", name)
		assert.Equal(t, name, cmd.Name())
	}
}
