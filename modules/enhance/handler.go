package enhance

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

type EnhanceRequest struct {
	Action model.EditingAction `json:"action"`
}

type EnhanceHandler struct {
	service *Service
}

func NewEnhanceHandler(service *Service) *EnhanceHandler {
	return &EnhanceHandler{service: service}
}

// RegisterRoutes - register prompt-enhancement endpoint
func (h *EnhanceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/enhance/{sessionId}", h.Enhance).Methods("POST", "OPTIONS")
	log.Println("✅ Enhance routes registered: /api/enhance/{sessionId}")
}

func (h *EnhanceHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		studio.WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if !model.IsValidAction(req.Action) {
		studio.WriteInvalidRequest(w, "Unknown action: "+string(req.Action))
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.Enhance(r.Context(), sessionID, req.Action))
}
