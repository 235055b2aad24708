package studio

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/composer"
)

type StudioHandler struct {
	service *Service
	store   *Store
}

func NewStudioHandler(service *Service, store *Store) *StudioHandler {
	return &StudioHandler{
		service: service,
		store:   store,
	}
}

// RegisterRoutes - register studio endpoints
func (h *StudioHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/studio/options", h.GetOptions).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/state", h.GetState).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/actions/toggle", h.ToggleAction).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/source", h.SetSource).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/preset", h.SelectPreset).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/prompt", h.SetPromptInput).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/upload", h.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/logo", h.UploadLogo).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/generate", h.Generate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/use-generated", h.UseGenerated).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/view", h.SetView).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/brand", h.SetBrand).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/session/save", h.SaveSession).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/studio/{sessionId}/session/load", h.LoadSession).Methods("POST", "OPTIONS")
	log.Println("✅ Studio routes registered: /api/studio/*")
}

func (h *StudioHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, &OptionsResponse{
		Success: true,
		Actions: composer.ActionOptions,
		Presets: model.ProductPresets,
	})
}

func (h *StudioHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	WriteJSON(w, http.StatusOK, OK(h.store.Snapshot(sessionID)))
}

func (h *StudioHandler) ToggleAction(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req ToggleActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if !model.IsValidAction(req.Action) {
		WriteInvalidRequest(w, "Unknown action: "+string(req.Action))
		return
	}

	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		applyToggleAction(st, req.Action)
	})
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) SetSource(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SetSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if req.SourceType != model.SourcePreset && req.SourceType != model.SourceUpload {
		WriteInvalidRequest(w, "Unknown source type: "+string(req.SourceType))
		return
	}

	h.store.Update(sessionID, func(st *model.SessionState) {
		applySetSource(st, req.SourceType)
	})
	if req.SourceType == model.SourcePreset {
		h.service.ResolvePresetImage(sessionID)
	}
	WriteJSON(w, http.StatusOK, OK(h.store.Snapshot(sessionID)))
}

func (h *StudioHandler) SelectPreset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if model.FindPreset(req.PresetID) == nil {
		WriteInvalidRequest(w, "Unknown preset: "+req.PresetID)
		return
	}

	h.store.Update(sessionID, func(st *model.SessionState) {
		applySelectPreset(st, req.PresetID)
	})
	h.service.ResolvePresetImage(sessionID)
	WriteJSON(w, http.StatusOK, OK(h.store.Snapshot(sessionID)))
}

func (h *StudioHandler) SetPromptInput(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req PromptInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if !model.IsValidAction(req.Action) {
		WriteInvalidRequest(w, "Unknown action: "+string(req.Action))
		return
	}

	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		applySetPromptInput(st, req.Action, req.Value)
	})
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, applyUpload, model.ErrCodeUploadTooLarge)
}

func (h *StudioHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, applyUploadLogo, model.ErrCodeUploadTooLarge)
}

func (h *StudioHandler) handleUpload(w http.ResponseWriter, r *http.Request, apply func(*model.SessionState, string) bool, failCode string) {
	sessionID := mux.Vars(r)["sessionId"]

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if req.ImageData == "" {
		WriteInvalidRequest(w, "Missing required field: imageData")
		return
	}

	accepted := false
	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		accepted = apply(st, req.ImageData)
	})
	if !accepted {
		WriteJSON(w, http.StatusOK, Fail(snapshot, failCode, snapshot.Error))
		return
	}
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	WriteJSON(w, http.StatusOK, h.service.Generate(r.Context(), sessionID))
}

func (h *StudioHandler) UseGenerated(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	promoted := false
	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		promoted = applyUseGenerated(st)
	})
	if !promoted {
		WriteJSON(w, http.StatusOK, Fail(snapshot, model.ErrCodeMissingImage, "No generated image to use."))
		return
	}
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) SetView(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SetViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if !model.IsValidView(req.View) {
		WriteInvalidRequest(w, "Unknown view: "+string(req.View))
		return
	}

	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		applySetView(st, req.View)
	})
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) SetBrand(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SetBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "Invalid request format")
		return
	}

	snapshot := h.store.Update(sessionID, func(st *model.SessionState) {
		applySetBrand(st, req.CuratorName, req.PhoneNumber)
	})
	WriteJSON(w, http.StatusOK, OK(snapshot))
}

func (h *StudioHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	WriteJSON(w, http.StatusOK, h.service.SaveSession(r.Context(), sessionID))
}

func (h *StudioHandler) LoadSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	WriteJSON(w, http.StatusOK, h.service.LoadSession(r.Context(), sessionID))
}

// WriteJSON - shared response writer for snapshot-answering endpoints
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, &StateResponse{
		Success:      false,
		ErrorMessage: message,
		ErrorCode:    model.ErrCodeInvalidRequest,
	})
}
