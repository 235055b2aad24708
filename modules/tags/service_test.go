package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

type fakeTextGen struct {
	text string
	err  error
	last string
}

func (f *fakeTextGen) GenerateTextWithSearch(ctx context.Context, prompt string) (string, error) {
	f.last = prompt
	return f.text, f.err
}

func TestExtractHashtags(t *testing.T) {
	t.Run("regex extraction keeps accented tags", func(t *testing.T) {
		got := ExtractHashtags("Sure! #moda #lookdodia #vestidorosa #coleção trailing noise")
		assert.Equal(t, []string{"#moda", "#lookdodia", "#vestidorosa", "#coleção"}, got)
	})

	t.Run("fallback splits and prefixes when no markers", func(t *testing.T) {
		got := ExtractHashtags("moda lookdodia ok")
		assert.Equal(t, []string{"#moda", "#lookdodia"}, got, "short words dropped, rest prefixed")
	})

	t.Run("empty input yields no tags", func(t *testing.T) {
		assert.Empty(t, ExtractHashtags(""))
	})
}

func TestGenerate(t *testing.T) {
	gen := &fakeTextGen{text: "#moda #veraobrasil #vestido"}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs = map[string]string{string(model.ActionBackgroundSwap): "beach"}
	})

	resp := svc.Generate(context.Background(), "s1")

	require.True(t, resp.Success)
	assert.Equal(t, []string{"#moda", "#veraobrasil", "#vestido"}, resp.State.GeneratedTags)
	assert.False(t, resp.State.IsGeneratingTags)
	assert.Contains(t, gen.last, `"Change the background to: beach`, "edit context flows into the instruction")
	assert.Contains(t, gen.last, "Vestido Midi Rosa Claro Soltinho", "preset name included in preset mode")
}

func TestGenerateFailureKeepsPreviousTags(t *testing.T) {
	gen := &fakeTextGen{err: errors.New("unavailable")}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.GeneratedTags = []string{"#anterior"}
	})

	resp := svc.Generate(context.Background(), "s1")

	assert.False(t, resp.Success)
	snapshot := store.Snapshot("s1")
	assert.False(t, snapshot.IsGeneratingTags)
	assert.Equal(t, []string{"#anterior"}, snapshot.GeneratedTags)
}

func TestCopyTags(t *testing.T) {
	store := studio.NewStore()
	svc := NewService(store, &fakeTextGen{})

	t.Run("no-op without tags", func(t *testing.T) {
		resp := svc.CopyTags("s1")
		assert.Empty(t, resp.State.StatusMessage)
	})

	t.Run("acknowledges when tags exist", func(t *testing.T) {
		store.Update("s1", func(st *model.SessionState) {
			st.GeneratedTags = []string{"#moda"}
		})
		resp := svc.CopyTags("s1")
		assert.Equal(t, "Tags copied to clipboard!", resp.State.StatusMessage)
	})
}
