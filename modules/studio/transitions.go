package studio

import (
	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/common/utils"
	"rosa-studio-server/modules/composer"
)

// Validation messages shown to the user
const (
	msgUploadTooLarge = "Image size too large. Max 5MB."
	msgLogoTooLarge   = "Logo size too large. Max 2MB."
)

// applyToggleAction - flip one editing action. The stale generated image and
// status are cleared because the edit intent changed.
func applyToggleAction(st *model.SessionState, action model.EditingAction) {
	st.ActiveActions = composer.ToggleAction(st.ActiveActions, action)
	st.GeneratedImage = ""
	st.StatusMessage = ""
}

// applySetSource - switch between preset and upload mode. Preset mode nulls
// the current image so the preset loader re-resolves it; upload mode
// restores whatever was last uploaded.
func applySetSource(st *model.SessionState, source model.SourceType) {
	st.SourceType = source
	if source == model.SourcePreset {
		st.CurrentImage = ""
	} else {
		st.CurrentImage = st.UploadedImage
	}
	st.GeneratedImage = ""
	st.GeneratedTags = []string{}
	st.Error = ""
	st.StatusMessage = ""
}

// applySelectPreset - pick a different template product
func applySelectPreset(st *model.SessionState, presetID string) {
	st.SelectedPresetID = presetID
	st.CurrentImage = ""
	st.GeneratedImage = ""
	st.GeneratedTags = []string{}
	st.StatusMessage = ""
}

func applySetPromptInput(st *model.SessionState, action model.EditingAction, value string) {
	if st.PromptInputs == nil {
		st.PromptInputs = make(map[string]string)
	}
	st.PromptInputs[string(action)] = value
}

// applyUpload - accept a new base image. The size check runs against the
// encoded payload before anything is decoded; on violation only the error
// field changes.
func applyUpload(st *model.SessionState, dataURL string) bool {
	if utils.DataURLSize(dataURL) > config.GetConfig().MaxUploadBytes {
		st.Error = msgUploadTooLarge
		st.StatusMessage = ""
		return false
	}
	st.UploadedImage = dataURL
	st.CurrentImage = dataURL
	st.SourceType = model.SourceUpload
	st.GeneratedImage = ""
	st.GeneratedTags = []string{}
	st.Error = ""
	st.StatusMessage = ""
	return true
}

// applyUploadLogo - accept a brand logo, with its tighter cap
func applyUploadLogo(st *model.SessionState, dataURL string) bool {
	if utils.DataURLSize(dataURL) > config.GetConfig().MaxLogoBytes {
		st.Error = msgLogoTooLarge
		st.StatusMessage = ""
		return false
	}
	st.LogoURL = dataURL
	st.Error = ""
	return true
}

// applyUseGenerated - promote the generated image to the new editing base.
// One-way move: the prior base is discarded from the session (it survives
// in the catalog only if it was saved there).
func applyUseGenerated(st *model.SessionState) bool {
	if st.GeneratedImage == "" {
		return false
	}
	st.CurrentImage = st.GeneratedImage
	st.UploadedImage = st.GeneratedImage
	st.SourceType = model.SourceUpload
	st.GeneratedImage = ""
	st.GeneratedTags = []string{}
	st.StatusMessage = ""
	return true
}

func applySetView(st *model.SessionState, view model.View) {
	st.CurrentView = view
}

// applySetBrand - curator name and contact phone for checkout and lookbook
func applySetBrand(st *model.SessionState, curatorName, phoneNumber string) {
	st.CuratorName = curatorName
	st.PhoneNumber = phoneNumber
}
