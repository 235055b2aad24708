package studio

import "rosa-studio-server/modules/common/model"

// StateResponse - every studio endpoint answers with the session snapshot
// resulting from the transition
type StateResponse struct {
	Success      bool                `json:"success"`
	State        *model.SessionState `json:"state,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	ErrorCode    string              `json:"errorCode,omitempty"`
}

// OK / Fail - response constructors shared by every module that answers
// with a session snapshot
func OK(state *model.SessionState) *StateResponse {
	return &StateResponse{Success: true, State: state}
}

func Fail(state *model.SessionState, code, message string) *StateResponse {
	return &StateResponse{
		Success:      false,
		State:        state,
		ErrorMessage: message,
		ErrorCode:    code,
	}
}

// OptionsResponse - static editor metadata for clients
type OptionsResponse struct {
	Success bool                  `json:"success"`
	Actions interface{}           `json:"actions"`
	Presets []model.ProductPreset `json:"presets"`
}

type ToggleActionRequest struct {
	Action model.EditingAction `json:"action"`
}

type SetSourceRequest struct {
	SourceType model.SourceType `json:"sourceType"`
}

type SelectPresetRequest struct {
	PresetID string `json:"presetId"`
}

type PromptInputRequest struct {
	Action model.EditingAction `json:"action"`
	Value  string              `json:"value"`
}

type UploadRequest struct {
	// Base64 data URL of the image payload
	ImageData string `json:"imageData"`
}

type SetViewRequest struct {
	View model.View `json:"view"`
}

type SetBrandRequest struct {
	CuratorName string `json:"curatorName"`
	PhoneNumber string `json:"phoneNumber"`
}
