package lookbook

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

type LookbookHandler struct {
	service *Service
}

func NewLookbookHandler(service *Service) *LookbookHandler {
	return &LookbookHandler{service: service}
}

// RegisterRoutes - register lookbook endpoints
func (h *LookbookHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/lookbook/{sessionId}", h.Render).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/lookbook/{sessionId}/pdf", h.ExportPDF).Methods("GET", "OPTIONS")
	log.Println("✅ Lookbook routes registered: /api/lookbook/*")
}

func (h *LookbookHandler) Render(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	html, err := h.service.RenderHTML(sessionID)
	if err != nil {
		log.Printf("❌ [Lookbook] Render failed for session %s: %v", sessionID, err)
		studio.WriteJSON(w, http.StatusInternalServerError, studio.Fail(nil, model.ErrCodeInternalError, "Failed to render lookbook."))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *LookbookHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	pdf, err := h.service.ExportPDF(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ [Lookbook] PDF export failed for session %s: %v", sessionID, err)
		studio.WriteJSON(w, http.StatusInternalServerError, studio.Fail(nil, model.ErrCodeInternalError, "Failed to export PDF."))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lookbook.pdf"`)
	w.Write(pdf)
}
