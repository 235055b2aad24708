package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/cart"
	"rosa-studio-server/modules/catalog"
	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/database"
	"rosa-studio-server/modules/common/gemini"
	"rosa-studio-server/modules/common/localstore"
	redisconn "rosa-studio-server/modules/common/redis"
	"rosa-studio-server/modules/enhance"
	"rosa-studio-server/modules/lookbook"
	"rosa-studio-server/modules/studio"
	"rosa-studio-server/modules/tags"
)

// enableCORS - the studio frontend runs on a different origin
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "rosa-studio-server",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	geminiClient, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to create Gemini client: %v", err)
	}

	var db *database.Client
	if cfg.UseSupabase() {
		db = database.NewClient()
	}
	if db == nil {
		log.Printf("ℹ️ [Main] Supabase disabled, sessions persist to local disk only")
	}

	local, err := localstore.NewStore()
	if err != nil {
		log.Fatalf("❌ Failed to open local session store: %v", err)
	}

	rdb := redisconn.Connect(cfg)
	if rdb == nil {
		log.Printf("⚠️ [Main] Redis unavailable, variation jobs run in-process")
	}

	// Session store and WebSocket hub reference each other, so the hub is
	// attached after both exist.
	store := studio.NewStore()
	hub := NewHub(store)
	store.SetBroadcaster(hub)
	store.StartCleanup(ctx)

	studioService := studio.NewService(store, geminiClient, db, local)
	catalogService := catalog.NewService(store, geminiClient, db, local, rdb)
	cartService := cart.NewService(store)
	tagsService := tags.NewService(store, geminiClient)
	enhanceService := enhance.NewService(store, geminiClient)
	lookbookService := lookbook.NewService(store)

	catalogService.StartWorker(ctx)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWebSocket)

	r.HandleFunc("/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["sessionId"]
		clientCount, clientIDs := hub.SessionInfo(sessionID)
		studio.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"sessionId":   sessionID,
			"clientCount": clientCount,
			"clients":     clientIDs,
		})
	}).Methods("GET")

	r.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		studio.WriteJSON(w, http.StatusOK, hub.MetricsSnapshot())
	}).Methods("GET")

	studio.NewStudioHandler(studioService, store).RegisterRoutes(r)
	catalog.NewCatalogHandler(catalogService).RegisterRoutes(r)
	cart.NewCartHandler(cartService).RegisterRoutes(r)
	tags.NewTagsHandler(tagsService).RegisterRoutes(r)
	enhance.NewEnhanceHandler(enhanceService).RegisterRoutes(r)
	lookbook.NewLookbookHandler(lookbookService).RegisterRoutes(r)

	log.Printf("🚀 Rosa Studio Server starting on port %s", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
