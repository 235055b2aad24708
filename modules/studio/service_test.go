package studio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosa-studio-server/modules/common/gemini"
	"rosa-studio-server/modules/common/localstore"
	"rosa-studio-server/modules/common/model"
)

// fakeEditor - canned image-generation collaborator
type fakeEditor struct {
	result string
	err    error
	calls  int
}

func (f *fakeEditor) EditImage(ctx context.Context, imageDataURL, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func newTestService(t *testing.T, editor ImageEditor) (*Service, *Store) {
	t.Helper()
	store := NewStore()
	local, err := localstore.NewStore()
	require.NoError(t, err)
	return NewService(store, editor, nil, local), store
}

func TestGenerateRejectsWithoutImage(t *testing.T) {
	editor := &fakeEditor{result: "data:image/png;base64,OUT"}
	svc, store := newTestService(t, editor)

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeMissingImage, resp.ErrorCode)
	assert.Equal(t, 0, editor.calls, "no external call on synchronous rejection")
	assert.False(t, store.Snapshot("s1").IsGenerating)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	editor := &fakeEditor{result: "data:image/png;base64,OUT"}
	svc, store := newTestService(t, editor)

	store.Update("s1", func(st *model.SessionState) {
		st.CurrentImage = "data:image/png;base64,IN"
		st.PromptInputs = map[string]string{}
	})

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeEmptyPrompt, resp.ErrorCode)
	assert.Equal(t, msgEmptyPrompt, resp.ErrorMessage)
	assert.Equal(t, 0, editor.calls)
	assert.False(t, store.Snapshot("s1").IsGenerating)
}

func TestGenerateRejectsWhileBusy(t *testing.T) {
	editor := &fakeEditor{result: "data:image/png;base64,OUT"}
	svc, store := newTestService(t, editor)

	store.Update("s1", func(st *model.SessionState) {
		st.CurrentImage = "data:image/png;base64,IN"
		st.IsGenerating = true
	})

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeBusy, resp.ErrorCode)
	assert.Equal(t, 0, editor.calls)
}

func TestGenerateSuccess(t *testing.T) {
	editor := &fakeEditor{result: "data:image/png;base64,OUT"}
	svc, store := newTestService(t, editor)

	store.Update("s1", func(st *model.SessionState) {
		st.CurrentImage = "data:image/png;base64,IN"
		st.SliderPosition = 73
		st.GeneratedTags = []string{"#stale"}
		st.Error = "old error"
	})

	resp := svc.Generate(context.Background(), "s1")

	require.True(t, resp.Success)
	assert.Equal(t, 1, editor.calls)
	assert.Equal(t, "data:image/png;base64,OUT", resp.State.GeneratedImage)
	assert.False(t, resp.State.IsGenerating)
	assert.Equal(t, 50, resp.State.SliderPosition, "comparison slider resets to midpoint")
	assert.Empty(t, resp.State.GeneratedTags)
	assert.Empty(t, resp.State.Error)
}

func TestGenerateFailureClassified(t *testing.T) {
	editor := &fakeEditor{err: gemini.Classify(fmt.Errorf("googleapi: Error 429: quota exceeded"))}
	svc, store := newTestService(t, editor)

	store.Update("s1", func(st *model.SessionState) {
		st.CurrentImage = "data:image/png;base64,IN"
	})

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeQuotaExhausted, resp.ErrorCode)
	snapshot := store.Snapshot("s1")
	assert.False(t, snapshot.IsGenerating, "busy flag cleared on failure")
	assert.Equal(t, "AI quota exhausted. Please try again in a few minutes.", snapshot.Error)
	assert.Empty(t, snapshot.GeneratedImage)
}

func TestGenerateFailureGenericFallback(t *testing.T) {
	editor := &fakeEditor{err: errors.New("connection reset by peer")}
	svc, store := newTestService(t, editor)

	store.Update("s1", func(st *model.SessionState) {
		st.CurrentImage = "data:image/png;base64,IN"
	})

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to generate image. Please try again.", store.Snapshot("s1").Error)
}

func TestSaveAndLoadSessionRoundTrip(t *testing.T) {
	svc, store := newTestService(t, &fakeEditor{})

	store.Update("round", func(st *model.SessionState) {
		st.CuratorName = "Maria Rosa"
		st.PhoneNumber = "+55 11 99999-0000"
		st.Catalog = []model.CatalogItem{{
			ID:       "1700000000000",
			ImageURL: "data:image/png;base64,ITEM",
			Prompt:   "Change the background to: beach",
			Name:     "Vestido",
			Price:    "R$ 120.00",
		}}
	})

	saveResp := svc.SaveSession(context.Background(), "round")
	require.True(t, saveResp.Success)
	assert.Equal(t, msgSessionSaved, saveResp.State.StatusMessage)

	// Wipe the in-memory session, then restore from disk.
	store.Update("round", func(st *model.SessionState) {
		*st = *NewSessionState()
	})
	loadResp := svc.LoadSession(context.Background(), "round")
	require.True(t, loadResp.Success)
	assert.Equal(t, msgSessionLoaded, loadResp.State.StatusMessage)
	assert.Equal(t, "Maria Rosa", loadResp.State.CuratorName)
	require.Len(t, loadResp.State.Catalog, 1)
	assert.Equal(t, "Vestido", loadResp.State.Catalog[0].Name)
	assert.False(t, loadResp.State.IsGenerating)
}

func TestLoadSessionMissing(t *testing.T) {
	svc, _ := newTestService(t, &fakeEditor{})

	resp := svc.LoadSession(context.Background(), "never-saved")

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeNotFound, resp.ErrorCode)
	assert.Equal(t, msgNoSavedSession, resp.ErrorMessage)
}
