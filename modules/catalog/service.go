package catalog

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rosa-studio-server/modules/common/database"
	"rosa-studio-server/modules/common/gemini"
	"rosa-studio-server/modules/common/localstore"
	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/composer"
	"rosa-studio-server/modules/studio"
)

const queueName = "variations:queue"

// saveDebounce - catalog edits persist in the background after a quiet
// period, not on every keystroke. Variable so tests can shorten it.
var saveDebounce = 2 * time.Second

const (
	msgItemSaved       = "Item salvo no catálogo!"
	msgNoGenerated     = "No generated image to save."
	msgItemNotFound    = "Catalog item not found."
	msgVariationBusy   = "A variation is already being generated."
	msgVariationFailed = "Failed to queue variation. Please try again."
)

// ImageEditor - the image-generation collaborator, see studio.ImageEditor
type ImageEditor interface {
	EditImage(ctx context.Context, imageDataURL, prompt string) (string, error)
}

type Service struct {
	store  *studio.Store
	gemini ImageEditor
	db     *database.Client
	local  *localstore.Store
	rdb    *redis.Client

	saveMu     sync.Mutex
	saveTimers map[string]*time.Timer
}

func NewService(store *studio.Store, geminiClient ImageEditor, db *database.Client, local *localstore.Store, rdb *redis.Client) *Service {
	return &Service{
		store:      store,
		gemini:     geminiClient,
		db:         db,
		local:      local,
		rdb:        rdb,
		saveTimers: make(map[string]*time.Timer),
	}
}

// Add - commit the generated image to the catalog. Requires a generated
// image; the new item carries the composite prompt, the active action set
// and the generated tags, and goes to the front of the catalog.
func (s *Service) Add(sessionID string) *studio.StateResponse {
	created := false
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		if st.GeneratedImage == "" {
			return
		}
		now := time.Now().UnixMilli()
		// Items are prepended newest-first, so the head carries the latest
		// timestamp. Two adds inside the same millisecond would otherwise
		// collide on the time-derived id.
		if len(st.Catalog) > 0 && st.Catalog[0].Timestamp >= now {
			now = st.Catalog[0].Timestamp + 1
		}
		item := model.CatalogItem{
			ID:         strconv.FormatInt(now, 10),
			ImageURL:   st.GeneratedImage,
			Prompt:     composer.Composite(st.ActiveActions, st.PromptInputs),
			Actions:    append([]model.EditingAction(nil), st.ActiveActions...),
			Timestamp:  now,
			Tags:       append([]string(nil), st.GeneratedTags...),
			Variations: []string{},
		}
		st.Catalog = append([]model.CatalogItem{item}, st.Catalog...)
		st.StatusMessage = msgItemSaved
		st.Error = ""
		created = true
	})
	if !created {
		return studio.Fail(snapshot, model.ErrCodeMissingImage, msgNoGenerated)
	}
	s.ScheduleSave(sessionID)
	return studio.OK(snapshot)
}

// UpdateField - edit one of name/description/price in place. A cart entry
// sharing the id mirrors the edit so displayed cart contents stay
// consistent.
func (s *Service) UpdateField(sessionID, itemID, field, value string) *studio.StateResponse {
	found := false
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		for i := range st.Catalog {
			if st.Catalog[i].ID != itemID {
				continue
			}
			setField(&st.Catalog[i], field, value)
			found = true
			break
		}
		if !found {
			return
		}
		for i := range st.Cart {
			if st.Cart[i].ID == itemID {
				setField(&st.Cart[i].CatalogItem, field, value)
			}
		}
	})
	if !found {
		return studio.Fail(snapshot, model.ErrCodeNotFound, msgItemNotFound)
	}
	s.ScheduleSave(sessionID)
	return studio.OK(snapshot)
}

func setField(item *model.CatalogItem, field, value string) {
	switch field {
	case FieldName:
		item.Name = value
	case FieldDescription:
		item.Description = value
	case FieldPrice:
		item.Price = value
	}
}

// Remove - delete a catalog item. The cart entry with the same id goes
// with it.
func (s *Service) Remove(sessionID, itemID string) *studio.StateResponse {
	found := false
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		for i := range st.Catalog {
			if st.Catalog[i].ID == itemID {
				st.Catalog = append(st.Catalog[:i], st.Catalog[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return
		}
		for i := range st.Cart {
			if st.Cart[i].ID == itemID {
				st.Cart = append(st.Cart[:i], st.Cart[i+1:]...)
				break
			}
		}
	})
	if !found {
		return studio.Fail(snapshot, model.ErrCodeNotFound, msgItemNotFound)
	}

	if s.db != nil {
		go func() {
			if err := s.db.DeleteCatalogItem(context.Background(), sessionID, itemID); err != nil {
				log.Printf("⚠️  [Catalog] Failed to delete item %s remotely: %v", itemID, err)
			}
		}()
	}
	s.ScheduleSave(sessionID)
	return studio.OK(snapshot)
}

// EnqueueVariation - queue an alternate render of a catalog item. One
// variation may be visibly in flight per session; the in-flight item id
// lives on the session state.
func (s *Service) EnqueueVariation(ctx context.Context, sessionID, itemID string) *studio.StateResponse {
	var errCode, errMsg string
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		if st.GeneratingVariationID != "" {
			errCode, errMsg = model.ErrCodeBusy, msgVariationBusy
			return
		}
		if findItem(st, itemID) == nil {
			errCode, errMsg = model.ErrCodeNotFound, msgItemNotFound
			return
		}
		st.GeneratingVariationID = itemID
	})
	if errCode != "" {
		return studio.Fail(snapshot, errCode, errMsg)
	}

	job := model.VariationJob{
		JobID:     uuid.NewString(),
		SessionID: sessionID,
		ItemID:    itemID,
	}

	if s.rdb == nil {
		// No queue configured: process in-process.
		go s.ProcessVariation(context.Background(), &job)
		return studio.OK(snapshot)
	}

	payload, err := json.Marshal(job)
	if err == nil {
		err = s.rdb.LPush(ctx, queueName, payload).Err()
	}
	if err != nil {
		log.Printf("❌ [Catalog] Failed to enqueue variation job: %v", err)
		snapshot = s.store.Update(sessionID, func(st *model.SessionState) {
			st.GeneratingVariationID = ""
			st.Error = msgVariationFailed
		})
		return studio.Fail(snapshot, model.ErrCodeInternalError, msgVariationFailed)
	}

	log.Printf("📬 [Catalog] Variation job %s queued for item %s", job.JobID, itemID)
	return studio.OK(snapshot)
}

// ProcessVariation - generate one variation. Called by the queue worker;
// uses the item's stored prompt or the fallback instruction when that
// prompt is too thin.
func (s *Service) ProcessVariation(ctx context.Context, job *model.VariationJob) {
	snapshot := s.store.Snapshot(job.SessionID)
	item := findItem(snapshot, job.ItemID)
	if item == nil {
		log.Printf("⚠️  [Catalog] Variation job %s targets a deleted item, skipping", job.JobID)
		s.store.Update(job.SessionID, func(st *model.SessionState) {
			if st.GeneratingVariationID == job.ItemID {
				st.GeneratingVariationID = ""
			}
		})
		return
	}

	prompt := composer.VariationPrompt(item.Prompt)
	result, genErr := s.gemini.EditImage(ctx, item.ImageURL, prompt)

	s.store.Update(job.SessionID, func(st *model.SessionState) {
		if st.GeneratingVariationID == job.ItemID {
			st.GeneratingVariationID = ""
		}
		if genErr != nil {
			st.Error = gemini.UserMessage(genErr)
			return
		}
		if target := findItem(st, job.ItemID); target != nil {
			target.Variations = append([]string{result}, target.Variations...)
		}
	})

	event := &VariationEvent{JobID: job.JobID, ItemID: job.ItemID, Success: genErr == nil}
	if genErr != nil {
		event.Error = gemini.UserMessage(genErr)
		log.Printf("❌ [Catalog] Variation job %s failed: %v", job.JobID, genErr)
	} else {
		log.Printf("✅ [Catalog] Variation job %s complete for item %s", job.JobID, job.ItemID)
		s.ScheduleSave(job.SessionID)
	}
	s.store.BroadcastEvent(job.SessionID, "variation_completed", event)
}

// SwapVariation - exchange the item's primary image with variation idx.
// The old primary takes the variation's slot, so nothing is lost.
func (s *Service) SwapVariation(sessionID, itemID string, idx int) *studio.StateResponse {
	var errCode, errMsg string
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		item := findItem(st, itemID)
		if item == nil {
			errCode, errMsg = model.ErrCodeNotFound, msgItemNotFound
			return
		}
		if idx < 0 || idx >= len(item.Variations) {
			errCode, errMsg = model.ErrCodeInvalidRequest, "Variation index out of range."
			return
		}
		item.ImageURL, item.Variations[idx] = item.Variations[idx], item.ImageURL
	})
	if errCode != "" {
		return studio.Fail(snapshot, errCode, errMsg)
	}
	s.ScheduleSave(sessionID)
	return studio.OK(snapshot)
}

// DeleteVariation - drop variation idx, leaving the primary untouched
func (s *Service) DeleteVariation(sessionID, itemID string, idx int) *studio.StateResponse {
	var errCode, errMsg string
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		item := findItem(st, itemID)
		if item == nil {
			errCode, errMsg = model.ErrCodeNotFound, msgItemNotFound
			return
		}
		if idx < 0 || idx >= len(item.Variations) {
			errCode, errMsg = model.ErrCodeInvalidRequest, "Variation index out of range."
			return
		}
		item.Variations = append(item.Variations[:idx], item.Variations[idx+1:]...)
	})
	if errCode != "" {
		return studio.Fail(snapshot, errCode, errMsg)
	}
	s.ScheduleSave(sessionID)
	return studio.OK(snapshot)
}

func findItem(st *model.SessionState, itemID string) *model.CatalogItem {
	for i := range st.Catalog {
		if st.Catalog[i].ID == itemID {
			return &st.Catalog[i]
		}
	}
	return nil
}

// ScheduleSave - debounced background persistence. Each new edit within
// the window pushes the save out; the session is captured by id, not by
// snapshot, so the eventual save writes the latest state.
func (s *Service) ScheduleSave(sessionID string) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if timer, ok := s.saveTimers[sessionID]; ok {
		timer.Stop()
	}
	s.saveTimers[sessionID] = time.AfterFunc(saveDebounce, func() {
		s.saveMu.Lock()
		delete(s.saveTimers, sessionID)
		s.saveMu.Unlock()
		s.persist(sessionID)
	})
}

func (s *Service) persist(sessionID string) {
	snapshot := s.store.Snapshot(sessionID)

	var err error
	if s.db != nil {
		err = s.db.SaveSession(context.Background(), sessionID, snapshot)
	} else {
		err = s.local.Save(sessionID, snapshot)
	}
	if err != nil {
		log.Printf("⚠️  [Catalog] Background save failed for session %s: %v", sessionID, err)
		return
	}
	log.Printf("💾 [Catalog] Session %s persisted (%d items)", sessionID, len(snapshot.Catalog))
}
