package catalog

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/studio"
)

type CatalogHandler struct {
	service *Service
}

func NewCatalogHandler(service *Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes - register catalog endpoints
func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/catalog/{sessionId}/items", h.Add).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/catalog/{sessionId}/items/{itemId}/field", h.UpdateField).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/catalog/{sessionId}/items/{itemId}/remove", h.Remove).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/catalog/{sessionId}/items/{itemId}/variations", h.EnqueueVariation).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/catalog/{sessionId}/items/{itemId}/variations/swap", h.SwapVariation).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/catalog/{sessionId}/items/{itemId}/variations/delete", h.DeleteVariation).Methods("POST", "OPTIONS")
	log.Println("✅ Catalog routes registered: /api/catalog/*")
}

func (h *CatalogHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.Add(sessionID))
}

func (h *CatalogHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		studio.WriteInvalidRequest(w, "Invalid request format")
		return
	}
	if req.Field != FieldName && req.Field != FieldDescription && req.Field != FieldPrice {
		studio.WriteInvalidRequest(w, "Unknown field: "+req.Field)
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.UpdateField(vars["sessionId"], vars["itemId"], req.Field, req.Value))
}

func (h *CatalogHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studio.WriteJSON(w, http.StatusOK, h.service.Remove(vars["sessionId"], vars["itemId"]))
}

func (h *CatalogHandler) EnqueueVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studio.WriteJSON(w, http.StatusOK, h.service.EnqueueVariation(r.Context(), vars["sessionId"], vars["itemId"]))
}

func (h *CatalogHandler) SwapVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req VariationIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		studio.WriteInvalidRequest(w, "Invalid request format")
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.SwapVariation(vars["sessionId"], vars["itemId"], req.Index))
}

func (h *CatalogHandler) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req VariationIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		studio.WriteInvalidRequest(w, "Invalid request format")
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.DeleteVariation(vars["sessionId"], vars["itemId"], req.Index))
}
