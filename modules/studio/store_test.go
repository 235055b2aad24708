package studio

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/model"
)

func TestMain(m *testing.M) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	dir, err := os.MkdirTemp("", "studio-test-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	os.Setenv("LOCAL_SESSION_DIR", dir)

	if _, err := config.LoadConfig(); err != nil {
		panic(err)
	}
	statusClearDelay = 50 * time.Millisecond
	os.Exit(m.Run())
}

func TestNewSessionState(t *testing.T) {
	st := NewSessionState()

	assert.Equal(t, model.SourcePreset, st.SourceType)
	assert.Equal(t, model.ProductPresets[0].ID, st.SelectedPresetID)
	assert.Equal(t, []model.EditingAction{model.ActionBackgroundSwap}, st.ActiveActions)
	assert.Equal(t, "luxury retail store interior", st.PromptInputs[string(model.ActionBackgroundSwap)])
	assert.Equal(t, 50, st.SliderPosition)
	assert.Equal(t, model.ViewStudio, st.CurrentView)
	assert.NotNil(t, st.Catalog)
	assert.NotNil(t, st.Cart)
}

func TestStoreGetIsIdempotent(t *testing.T) {
	store := NewStore()
	a := store.Get("s1")
	b := store.Get("s1")
	assert.Same(t, a, b)
	assert.NotSame(t, a, store.Get("s2"))
}

func TestUpdateBroadcastsSnapshot(t *testing.T) {
	store := NewStore()
	spy := &broadcastSpy{}
	store.SetBroadcaster(spy)

	snapshot := store.Update("s1", func(st *model.SessionState) {
		st.CuratorName = "Maria"
	})

	assert.Equal(t, "Maria", snapshot.CuratorName)
	require.Len(t, spy.events, 1)
	assert.Equal(t, "state_update", spy.events[0].event)

	// The snapshot must not alias live state.
	store.Update("s1", func(st *model.SessionState) {
		st.CuratorName = "Rosa"
	})
	assert.Equal(t, "Maria", snapshot.CuratorName)
}

func TestStatusAutoClear(t *testing.T) {
	store := NewStore()

	store.Update("s1", func(st *model.SessionState) {
		st.StatusMessage = "Tags copied!"
	})
	assert.Equal(t, "Tags copied!", store.Snapshot("s1").StatusMessage)

	assert.Eventually(t, func() bool {
		return store.Snapshot("s1").StatusMessage == ""
	}, time.Second, 10*time.Millisecond)
}

func TestStatusTimerRearmedByNewerMessage(t *testing.T) {
	store := NewStore()

	store.Update("s1", func(st *model.SessionState) {
		st.StatusMessage = "first"
	})
	// Overwrite before the first timer fires. The stale timer must not
	// clear the newer message early.
	time.Sleep(30 * time.Millisecond)
	store.Update("s1", func(st *model.SessionState) {
		st.StatusMessage = "second"
	})

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "second", store.Snapshot("s1").StatusMessage)

	assert.Eventually(t, func() bool {
		return store.Snapshot("s1").StatusMessage == ""
	}, time.Second, 10*time.Millisecond)
}

func TestToggleActionClearsStaleResult(t *testing.T) {
	store := NewStore()
	store.Update("s1", func(st *model.SessionState) {
		st.GeneratedImage = "data:image/png;base64,AAAA"
		st.StatusMessage = "saved"
	})

	snapshot := store.Update("s1", func(st *model.SessionState) {
		applyToggleAction(st, model.ActionPoseSwap)
	})

	assert.Empty(t, snapshot.GeneratedImage)
	assert.Empty(t, snapshot.StatusMessage)
	assert.Contains(t, snapshot.ActiveActions, model.ActionPoseSwap)
}

func TestSetSourceRestoresUpload(t *testing.T) {
	store := NewStore()
	store.Update("s1", func(st *model.SessionState) {
		st.UploadedImage = "data:image/png;base64,UPLOAD"
		st.CurrentImage = "data:image/png;base64,PRESET"
	})

	snapshot := store.Update("s1", func(st *model.SessionState) {
		applySetSource(st, model.SourceUpload)
	})
	assert.Equal(t, "data:image/png;base64,UPLOAD", snapshot.CurrentImage)

	snapshot = store.Update("s1", func(st *model.SessionState) {
		applySetSource(st, model.SourcePreset)
	})
	assert.Empty(t, snapshot.CurrentImage, "preset mode forces a reload")
	assert.Equal(t, "data:image/png;base64,UPLOAD", snapshot.UploadedImage)
}

func TestUploadSizeCap(t *testing.T) {
	store := NewStore()

	// An encoded payload well past the 5MiB cap. The check runs on the
	// encoded size, before any decode.
	huge := "data:image/png;base64," + string(make([]byte, 8*1024*1024))
	snapshot := store.Update("s1", func(st *model.SessionState) {
		applyUpload(st, huge)
	})

	assert.Equal(t, msgUploadTooLarge, snapshot.Error)
	assert.Empty(t, snapshot.UploadedImage)
	assert.Empty(t, snapshot.CurrentImage)
	assert.Equal(t, model.SourcePreset, snapshot.SourceType)
}

func TestLogoSizeCap(t *testing.T) {
	store := NewStore()

	big := "data:image/png;base64," + string(make([]byte, 3*1024*1024))
	snapshot := store.Update("s1", func(st *model.SessionState) {
		applyUploadLogo(st, big)
	})
	assert.Equal(t, msgLogoTooLarge, snapshot.Error)
	assert.Empty(t, snapshot.LogoURL)

	small := "data:image/png;base64,AAAA"
	snapshot = store.Update("s1", func(st *model.SessionState) {
		applyUploadLogo(st, small)
	})
	assert.Equal(t, small, snapshot.LogoURL)
	assert.Empty(t, snapshot.Error)
}

func TestUseGenerated(t *testing.T) {
	store := NewStore()

	t.Run("without a generated image it is a no-op", func(t *testing.T) {
		var promoted bool
		store.Update("s1", func(st *model.SessionState) {
			promoted = applyUseGenerated(st)
		})
		assert.False(t, promoted)
	})

	t.Run("promotes the result to the new base", func(t *testing.T) {
		store.Update("s1", func(st *model.SessionState) {
			st.CurrentImage = "data:image/png;base64,OLD"
			st.GeneratedImage = "data:image/png;base64,NEW"
			st.GeneratedTags = []string{"#moda"}
		})

		var promoted bool
		snapshot := store.Update("s1", func(st *model.SessionState) {
			promoted = applyUseGenerated(st)
		})

		assert.True(t, promoted)
		assert.Equal(t, "data:image/png;base64,NEW", snapshot.CurrentImage)
		assert.Equal(t, "data:image/png;base64,NEW", snapshot.UploadedImage)
		assert.Equal(t, model.SourceUpload, snapshot.SourceType)
		assert.Empty(t, snapshot.GeneratedImage)
		assert.Empty(t, snapshot.GeneratedTags)
	})
}

// broadcastSpy - records broadcast events
type broadcastSpy struct {
	events []struct {
		sessionID string
		event     string
	}
}

func (b *broadcastSpy) Broadcast(sessionID, event string, payload interface{}) {
	b.events = append(b.events, struct {
		sessionID string
		event     string
	}{sessionID, event})
}
