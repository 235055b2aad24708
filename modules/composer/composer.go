package composer

import (
	"fmt"
	"strings"

	"rosa-studio-server/modules/common/model"
)

// trailingClause - appended to every composite instruction so the renderer
// preserves everything the user did not ask to change
const trailingClause = "Maintain all other details, facial features, and lighting consistent with the original image."

// segmentTemplates - one fixed phrase per non-freeform action
var segmentTemplates = map[model.EditingAction]string{
	model.ActionBackgroundSwap: "Change the background to: %s",
	model.ActionOutfitSwap:     "Change the outfit to: %s",
	model.ActionPoseSwap:       "Change the pose to: %s",
	model.ActionShoesSwap:      "Change the shoes to: %s",
	model.ActionBagSwap:        "Add or change the bag to: %s",
	model.ActionColorChange:    "Change color: %s",
}

// Composite - build the single instruction string for the active action set.
//
// FREEFORM wins outright: its input is returned verbatim and every other
// selection is ignored. Otherwise each active action with a non-empty input
// contributes one template segment, in selection order, joined by ". " and
// closed with the preservation clause. An empty result means there is
// nothing to send and generation must be refused upstream.
func Composite(actions []model.EditingAction, inputs map[string]string) string {
	for _, action := range actions {
		if action == model.ActionFreeform {
			return inputs[string(model.ActionFreeform)]
		}
	}

	var segments []string
	for _, action := range actions {
		val := inputs[string(action)]
		if val == "" {
			continue
		}
		template, ok := segmentTemplates[action]
		if !ok {
			continue
		}
		segments = append(segments, fmt.Sprintf(template, val))
	}

	if len(segments) == 0 {
		return ""
	}

	return strings.Join(segments, ". ") + ". " + trailingClause
}

// ToggleAction - the action selection policy. Returns the new active set.
//
// Freeform is mutually exclusive: toggling it collapses the set to just
// FREEFORM, and toggling any standard action while FREEFORM is active drops
// FREEFORM first. The set is never left empty; BACKGROUND_SWAP is the
// documented fallback.
func ToggleAction(active []model.EditingAction, action model.EditingAction) []model.EditingAction {
	newActions := make([]model.EditingAction, 0, len(active)+1)

	if action == model.ActionFreeform {
		return []model.EditingAction{model.ActionFreeform}
	}

	hasFreeform := false
	for _, a := range active {
		if a == model.ActionFreeform {
			hasFreeform = true
			break
		}
	}
	if !hasFreeform {
		newActions = append(newActions, active...)
	}

	found := false
	for i, a := range newActions {
		if a == action {
			newActions = append(newActions[:i], newActions[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		newActions = append(newActions, action)
	}

	if len(newActions) == 0 {
		newActions = []model.EditingAction{model.ActionBackgroundSwap}
	}
	return newActions
}

// TagContext - the free-text context handed to the hashtag collaborator:
// the composite prompt, plus the preset product name when editing a preset
func TagContext(state *model.SessionState) string {
	context := Composite(state.ActiveActions, state.PromptInputs)
	if state.SourceType == model.SourcePreset {
		if preset := model.FindPreset(state.SelectedPresetID); preset != nil {
			context += " " + preset.Name
		}
	}
	return context
}

// minStoredPromptLen - below this, a catalog item's stored prompt is too
// thin to steer a variation and the fallback instruction is used instead
const minStoredPromptLen = 10

// variationFallback - fixed instruction for items without a usable prompt
const variationFallback = "Create a subtle variation of this fashion product photo. " +
	"Keep the outfit, the model's identity, and the lighting the same; vary the pose and camera angle slightly."

// VariationPrompt - instruction for generating an alternate render of a
// catalog item
func VariationPrompt(storedPrompt string) string {
	if len(strings.TrimSpace(storedPrompt)) < minStoredPromptLen {
		return variationFallback
	}
	return storedPrompt + " Generate a different variation of this image."
}

// DefaultPrompts - the example inputs a fresh session starts with
func DefaultPrompts() map[string]string {
	return map[string]string{
		string(model.ActionBackgroundSwap): "luxury retail store interior",
		string(model.ActionOutfitSwap):     "a floral summer dress",
		string(model.ActionPoseSwap):       "standing with crossed arms",
		string(model.ActionShoesSwap):      "elegant high heels",
		string(model.ActionBagSwap):        "a beige leather tote bag",
		string(model.ActionColorChange):    "the dress to navy blue",
		string(model.ActionFreeform):       "make it look like a magazine cover",
	}
}
