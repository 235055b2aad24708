package enhance

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

func (f *fakeTextGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.last = prompt
	return f.text, f.err
}

func TestEnhanceReplacesInput(t *testing.T) {
	gen := &fakeTextGen{text: "  a flowing floral summer dress in soft golden-hour light  "}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs = map[string]string{string(model.ActionOutfitSwap): "floral dress"}
	})

	resp := svc.Enhance(context.Background(), "s1", model.ActionOutfitSwap)

	require.True(t, resp.Success)
	assert.Equal(t, "a flowing floral summer dress in soft golden-hour light",
		resp.State.PromptInputs[string(model.ActionOutfitSwap)], "result is trimmed")
	assert.False(t, resp.State.IsEnhancingPrompt)
	assert.Contains(t, gen.last, `"floral dress"`)
	assert.Contains(t, gen.last, string(model.ActionOutfitSwap))
}

func TestEnhanceEmptyInputRejected(t *testing.T) {
	gen := &fakeTextGen{text: "anything"}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs = map[string]string{}
	})

	resp := svc.Enhance(context.Background(), "s1", model.ActionPoseSwap)

	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeEmptyPrompt, resp.ErrorCode)
	assert.Empty(t, gen.last, "no external call without input")
}

func TestEnhanceFailureKeepsOriginal(t *testing.T) {
	gen := &fakeTextGen{err: errors.New("overloaded")}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs = map[string]string{string(model.ActionShoesSwap): "red heels"}
	})

	resp := svc.Enhance(context.Background(), "s1", model.ActionShoesSwap)

	assert.True(t, resp.Success, "enhancement failure is non-fatal")
	assert.Equal(t, "red heels", resp.State.PromptInputs[string(model.ActionShoesSwap)])
	assert.False(t, resp.State.IsEnhancingPrompt)
}

func TestEnhanceSkipsStaleReplace(t *testing.T) {
	gen := &fakeTextGen{text: "improved version"}
	store := studio.NewStore()
	svc := NewService(store, gen)

	store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs = map[string]string{string(model.ActionBagSwap): "tote bag"}
	})

	// Simulate the user editing the field while the rewrite runs by
	// wrapping the generator.
	raced := &racingTextGen{inner: gen, store: store}
	svc = NewService(store, raced)

	resp := svc.Enhance(context.Background(), "s1", model.ActionBagSwap)

	require.True(t, resp.Success)
	assert.Equal(t, "clutch bag", resp.State.PromptInputs[string(model.ActionBagSwap)],
		"a newer user edit wins over the stale rewrite")
}

type racingTextGen struct {
	inner TextGenerator
	store *studio.Store
}

func (r *racingTextGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	r.store.Update("s1", func(st *model.SessionState) {
		st.PromptInputs[string(model.ActionBagSwap)] = "clutch bag"
	})
	return r.inner.GenerateText(ctx, prompt)
}
