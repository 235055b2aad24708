package tags

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/studio"
)

type TagsHandler struct {
	service *Service
}

func NewTagsHandler(service *Service) *TagsHandler {
	return &TagsHandler{service: service}
}

// RegisterRoutes - register tag endpoints
func (h *TagsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/tags/{sessionId}/generate", h.Generate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/tags/{sessionId}/copied", h.Copied).Methods("POST", "OPTIONS")
	log.Println("✅ Tags routes registered: /api/tags/*")
}

func (h *TagsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.Generate(r.Context(), sessionID))
}

func (h *TagsHandler) Copied(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.CopyTags(sessionID))
}
