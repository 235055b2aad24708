package studio

import (
	"context"
	"errors"
	"log"

	"rosa-studio-server/modules/common/database"
	"rosa-studio-server/modules/common/gemini"
	"rosa-studio-server/modules/common/localstore"
	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/common/utils"
	"rosa-studio-server/modules/composer"
)

// User-facing messages. Session persistence speaks the product's language.
const (
	msgGenerationBusy = "A generation is already in progress."
	msgMissingImage   = "Please select or upload an image first."
	msgEmptyPrompt    = "Please enter a description for your edits."

	msgSessionSaved    = "Sessão salva com sucesso!"
	msgSessionSaveFail = "Erro ao salvar sessão."
	msgStorageFull     = "Espaço insuficiente. Remova algumas imagens do catálogo."
	msgSessionLoaded   = "Sessão carregada com sucesso!"
	msgSessionLoadFail = "Erro ao carregar sessão."
	msgNoSavedSession  = "Nenhuma sessão salva encontrada."
)

// ImageEditor - the image-generation collaborator. Satisfied by
// gemini.Client; tests inject a fake.
type ImageEditor interface {
	EditImage(ctx context.Context, imageDataURL, prompt string) (string, error)
}

type Service struct {
	store  *Store
	gemini ImageEditor
	db     *database.Client
	local  *localstore.Store
}

// NewService - db may be nil; the local JSON store takes over persistence
func NewService(store *Store, geminiClient ImageEditor, db *database.Client, local *localstore.Store) *Service {
	return &Service{
		store:  store,
		gemini: geminiClient,
		db:     db,
		local:  local,
	}
}

// Generate - run the composite edit against the current image.
//
// Validation happens synchronously under the session lock: no current
// image, an empty composite prompt, or an in-flight generation each reject
// the request before any external call. Otherwise the busy flag goes up,
// stale transient fields are cleared, the comparison slider resets to the
// midpoint, and the Gemini call runs outside the lock.
func (s *Service) Generate(ctx context.Context, sessionID string) *StateResponse {
	var (
		image, prompt   string
		errCode, errMsg string
	)
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		if st.IsGenerating {
			errCode, errMsg = model.ErrCodeBusy, msgGenerationBusy
			return
		}
		if st.CurrentImage == "" {
			errCode, errMsg = model.ErrCodeMissingImage, msgMissingImage
			st.Error = errMsg
			return
		}
		prompt = composer.Composite(st.ActiveActions, st.PromptInputs)
		if prompt == "" {
			errCode, errMsg = model.ErrCodeEmptyPrompt, msgEmptyPrompt
			st.Error = errMsg
			return
		}
		image = st.CurrentImage
		st.IsGenerating = true
		st.Error = ""
		st.GeneratedTags = []string{}
		st.StatusMessage = ""
		st.SliderPosition = 50
	})
	if errCode != "" {
		return Fail(snapshot, errCode, errMsg)
	}

	log.Printf("🎨 [Studio] Generating for session %s, prompt: %.80s", sessionID, prompt)
	result, genErr := s.gemini.EditImage(ctx, image, prompt)

	snapshot = s.store.Update(sessionID, func(st *model.SessionState) {
		st.IsGenerating = false
		if genErr != nil {
			st.Error = gemini.UserMessage(genErr)
			return
		}
		st.GeneratedImage = result
	})
	if genErr != nil {
		log.Printf("❌ [Studio] Generation failed for session %s: %v", sessionID, genErr)
		return Fail(snapshot, gemini.ErrorCode(genErr), gemini.UserMessage(genErr))
	}
	log.Printf("✅ [Studio] Generation complete for session %s", sessionID)
	return OK(snapshot)
}

// ResolvePresetImage - fetch the selected preset's photo into the session
// when preset mode left the current image empty. No-op if the user moved on
// while the fetch was running.
func (s *Service) ResolvePresetImage(sessionID string) {
	snapshot := s.store.Snapshot(sessionID)
	if snapshot.SourceType != model.SourcePreset || snapshot.CurrentImage != "" {
		return
	}
	preset := model.FindPreset(snapshot.SelectedPresetID)
	if preset == nil {
		return
	}

	dataURL, err := utils.FetchImageAsDataURL(preset.URL)
	if err != nil {
		log.Printf("⚠️  [Studio] Failed to load preset %s: %v", preset.ID, err)
		s.store.Update(sessionID, func(st *model.SessionState) {
			st.Error = "Failed to load product image. Please try again."
		})
		return
	}

	s.store.Update(sessionID, func(st *model.SessionState) {
		if st.SourceType == model.SourcePreset && st.SelectedPresetID == preset.ID && st.CurrentImage == "" {
			st.CurrentImage = dataURL
		}
	})
}

// SaveSession - persist the whole session. Supabase when configured,
// local JSON file otherwise. Storage exhaustion gets its own message since
// the remedy (delete catalog items) differs from a generic failure.
func (s *Service) SaveSession(ctx context.Context, sessionID string) *StateResponse {
	snapshot := s.store.Snapshot(sessionID)

	var saveErr error
	if s.db != nil {
		saveErr = s.db.SaveSession(ctx, sessionID, snapshot)
	} else {
		saveErr = s.local.Save(sessionID, snapshot)
	}

	if saveErr != nil {
		log.Printf("❌ [Studio] Save failed for session %s: %v", sessionID, saveErr)
		msg, code := msgSessionSaveFail, model.ErrCodeInternalError
		if errors.Is(saveErr, localstore.ErrStorageFull) {
			msg, code = msgStorageFull, model.ErrCodeStorageFull
		}
		snap := s.store.Update(sessionID, func(st *model.SessionState) {
			st.Error = msg
			st.StatusMessage = ""
		})
		return Fail(snap, code, msg)
	}

	snap := s.store.Update(sessionID, func(st *model.SessionState) {
		st.StatusMessage = msgSessionSaved
		st.Error = ""
	})
	return OK(snap)
}

// LoadSession - replace the in-memory session with the persisted snapshot.
// Busy flags never survive a load.
func (s *Service) LoadSession(ctx context.Context, sessionID string) *StateResponse {
	var (
		loaded  *model.SessionState
		loadErr error
	)
	if s.db != nil {
		loaded, loadErr = s.db.LoadSession(ctx, sessionID)
	} else {
		loaded, loadErr = s.local.Load(sessionID)
	}

	if loadErr != nil {
		msg, code := msgSessionLoadFail, model.ErrCodeInternalError
		if errors.Is(loadErr, localstore.ErrNoSession) || errors.Is(loadErr, database.ErrNoSession) {
			msg, code = msgNoSavedSession, model.ErrCodeNotFound
		} else {
			log.Printf("❌ [Studio] Load failed for session %s: %v", sessionID, loadErr)
		}
		snap := s.store.Update(sessionID, func(st *model.SessionState) {
			st.Error = msg
			st.StatusMessage = ""
		})
		return Fail(snap, code, msg)
	}

	snap := s.store.Update(sessionID, func(st *model.SessionState) {
		*st = *loaded
		st.IsGenerating = false
		st.IsGeneratingTags = false
		st.IsEnhancingPrompt = false
		st.GeneratingVariationID = ""
		if st.PromptInputs == nil {
			st.PromptInputs = composer.DefaultPrompts()
		}
		if len(st.ActiveActions) == 0 {
			st.ActiveActions = []model.EditingAction{model.ActionBackgroundSwap}
		}
		st.StatusMessage = msgSessionLoaded
		st.Error = ""
	})
	log.Printf("📂 [Studio] Session %s loaded (%d catalog items)", sessionID, len(snap.Catalog))
	return OK(snap)
}
