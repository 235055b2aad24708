package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rosa-studio-server/modules/common/model"
)

func TestComposite(t *testing.T) {
	t.Run("single action produces template plus preservation clause", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionBackgroundSwap},
			map[string]string{string(model.ActionBackgroundSwap): "a beach at sunset"},
		)
		assert.Equal(t,
			"Change the background to: a beach at sunset. "+
				"Maintain all other details, facial features, and lighting consistent with the original image.",
			got)
	})

	t.Run("multiple actions joined in selection order", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionOutfitSwap, model.ActionPoseSwap},
			map[string]string{
				string(model.ActionOutfitSwap): "a red tuxedo",
				string(model.ActionPoseSwap):   "hands on hips",
			},
		)
		assert.Equal(t,
			"Change the outfit to: a red tuxedo. Change the pose to: hands on hips. "+
				"Maintain all other details, facial features, and lighting consistent with the original image.",
			got)
	})

	t.Run("freeform is verbatim and exclusive", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionBackgroundSwap, model.ActionFreeform},
			map[string]string{
				string(model.ActionBackgroundSwap): "a beach",
				string(model.ActionFreeform):       "make it look like a magazine cover",
			},
		)
		assert.Equal(t, "make it look like a magazine cover", got)
		assert.False(t, strings.Contains(got, "Maintain all other details"))
	})

	t.Run("freeform with empty input yields empty prompt", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionFreeform},
			map[string]string{string(model.ActionFreeform): ""},
		)
		assert.Equal(t, "", got)
	})

	t.Run("actions with empty inputs are skipped", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionBackgroundSwap, model.ActionShoesSwap},
			map[string]string{
				string(model.ActionBackgroundSwap): "",
				string(model.ActionShoesSwap):      "white sneakers",
			},
		)
		assert.Equal(t,
			"Change the shoes to: white sneakers. "+
				"Maintain all other details, facial features, and lighting consistent with the original image.",
			got)
	})

	t.Run("no usable inputs yields empty prompt", func(t *testing.T) {
		got := Composite([]model.EditingAction{model.ActionBagSwap}, map[string]string{})
		assert.Equal(t, "", got)
	})

	t.Run("bag and color use their own phrasing", func(t *testing.T) {
		got := Composite(
			[]model.EditingAction{model.ActionBagSwap, model.ActionColorChange},
			map[string]string{
				string(model.ActionBagSwap):     "a beige leather tote bag",
				string(model.ActionColorChange): "the dress to navy blue",
			},
		)
		assert.True(t, strings.HasPrefix(got, "Add or change the bag to: a beige leather tote bag. Change color: the dress to navy blue. "))
	})
}

func TestToggleAction(t *testing.T) {
	t.Run("toggling an inactive action adds it", func(t *testing.T) {
		got := ToggleAction([]model.EditingAction{model.ActionBackgroundSwap}, model.ActionPoseSwap)
		assert.Equal(t, []model.EditingAction{model.ActionBackgroundSwap, model.ActionPoseSwap}, got)
	})

	t.Run("toggling an active action removes it", func(t *testing.T) {
		got := ToggleAction(
			[]model.EditingAction{model.ActionBackgroundSwap, model.ActionPoseSwap},
			model.ActionPoseSwap,
		)
		assert.Equal(t, []model.EditingAction{model.ActionBackgroundSwap}, got)
	})

	t.Run("removing the last action falls back to background swap", func(t *testing.T) {
		got := ToggleAction([]model.EditingAction{model.ActionPoseSwap}, model.ActionPoseSwap)
		assert.Equal(t, []model.EditingAction{model.ActionBackgroundSwap}, got)
	})

	t.Run("freeform collapses the whole set", func(t *testing.T) {
		got := ToggleAction(
			[]model.EditingAction{model.ActionBackgroundSwap, model.ActionOutfitSwap},
			model.ActionFreeform,
		)
		assert.Equal(t, []model.EditingAction{model.ActionFreeform}, got)
	})

	t.Run("standard action replaces freeform", func(t *testing.T) {
		got := ToggleAction([]model.EditingAction{model.ActionFreeform}, model.ActionShoesSwap)
		assert.Equal(t, []model.EditingAction{model.ActionShoesSwap}, got)
	})
}

func TestVariationPrompt(t *testing.T) {
	t.Run("long stored prompt is reused with a variation suffix", func(t *testing.T) {
		got := VariationPrompt("Change the background to: a beach at sunset. Maintain all other details.")
		assert.True(t, strings.HasSuffix(got, "Generate a different variation of this image."))
		assert.True(t, strings.HasPrefix(got, "Change the background to: a beach at sunset."))
	})

	t.Run("short or empty prompt uses the fallback", func(t *testing.T) {
		assert.Equal(t, variationFallback, VariationPrompt(""))
		assert.Equal(t, variationFallback, VariationPrompt("   edit   "))
	})
}

func TestTagContext(t *testing.T) {
	t.Run("preset mode appends the product name", func(t *testing.T) {
		state := &model.SessionState{
			SourceType:       model.SourcePreset,
			SelectedPresetID: "p1",
			ActiveActions:    []model.EditingAction{model.ActionBackgroundSwap},
			PromptInputs:     map[string]string{string(model.ActionBackgroundSwap): "a garden"},
		}
		got := TagContext(state)
		assert.Contains(t, got, "Change the background to: a garden")
		assert.Contains(t, got, "Vestido Midi Rosa Claro Soltinho")
	})

	t.Run("upload mode is the composite alone", func(t *testing.T) {
		state := &model.SessionState{
			SourceType:    model.SourceUpload,
			ActiveActions: []model.EditingAction{model.ActionPoseSwap},
			PromptInputs:  map[string]string{string(model.ActionPoseSwap): "walking"},
		}
		got := TagContext(state)
		assert.NotContains(t, got, "Vestido")
	})
}

func TestDefaultPrompts(t *testing.T) {
	prompts := DefaultPrompts()
	assert.Len(t, prompts, len(model.AllActions))
	assert.Equal(t, "luxury retail store interior", prompts[string(model.ActionBackgroundSwap)])
	assert.Equal(t, "make it look like a magazine cover", prompts[string(model.ActionFreeform)])
}
