package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/supabase-community/supabase-go"
	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/common/utils"
)

// Table names. The session splits across a lightweight settings document,
// an image-heavy workstation document, and one row per catalog item so a
// large catalog never lands in a single oversized document.
const (
	tableSettings    = "rosa_settings"
	tableWorkstation = "rosa_workstation"
	tableCatalog     = "rosa_catalog_items"
)

// ErrNoSession - no saved session exists for the id
var ErrNoSession = errors.New("no saved session")

type Client struct {
	supabase *supabase.Client
}

// NewClient - create the Supabase client
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{supabase: supabaseClient}
}

// settingsRow - the lightweight per-session settings document
type settingsRow struct {
	SessionID        string            `json:"session_id"`
	SourceType       string            `json:"source_type"`
	SelectedPresetID string            `json:"selected_preset_id"`
	ActiveActions    []string          `json:"active_actions"`
	PromptInputs     map[string]string `json:"prompt_inputs"`
	CurrentView      string            `json:"current_view"`
	CuratorName      string            `json:"curator_name"`
	PhoneNumber      string            `json:"phone_number"`
	IsCartOpen       bool              `json:"is_cart_open"`
	Cart             []cartEntry       `json:"cart"`
	UpdatedAt        string            `json:"updated_at"`
}

// cartEntry - cart is persisted by reference; item content is re-joined
// against the catalog rows on load
type cartEntry struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// workstationRow - the image-heavy document (base64 data URLs)
type workstationRow struct {
	SessionID      string   `json:"session_id"`
	UploadedImage  string   `json:"uploaded_image"`
	CurrentImage   string   `json:"current_image"`
	GeneratedImage string   `json:"generated_image"`
	GeneratedTags  []string `json:"generated_tags"`
	LogoURL        string   `json:"logo_url"`
	UpdatedAt      string   `json:"updated_at"`
}

// catalogRow - one catalog item per row
type catalogRow struct {
	ItemID      string   `json:"item_id"`
	SessionID   string   `json:"session_id"`
	ImageURL    string   `json:"image_url"`
	Prompt      string   `json:"prompt"`
	Actions     []string `json:"actions"`
	Timestamp   int64    `json:"item_timestamp"`
	Tags        []string `json:"tags"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Variations  []string `json:"variations"`
	ArchivePath string   `json:"archive_path"`
}

// SaveSession - persist the full snapshot: settings merge-upsert,
// workstation merge-upsert, then per-item catalog writes
func (c *Client) SaveSession(ctx context.Context, sessionID string, state *model.SessionState) error {
	log.Printf("💾 [Database] Saving session %s (catalog: %d, cart: %d)", sessionID, len(state.Catalog), len(state.Cart))

	if err := c.saveSettings(sessionID, state); err != nil {
		return err
	}
	if err := c.saveWorkstation(sessionID, state); err != nil {
		return err
	}

	for i := range state.Catalog {
		if err := c.SaveCatalogItem(ctx, sessionID, &state.Catalog[i]); err != nil {
			return err
		}
	}

	log.Printf("✅ [Database] Session %s saved", sessionID)
	return nil
}

func (c *Client) saveSettings(sessionID string, state *model.SessionState) error {
	cart := make([]cartEntry, 0, len(state.Cart))
	for _, item := range state.Cart {
		cart = append(cart, cartEntry{ItemID: item.ID, Quantity: item.Quantity})
	}

	row := settingsRow{
		SessionID:        sessionID,
		SourceType:       string(state.SourceType),
		SelectedPresetID: state.SelectedPresetID,
		ActiveActions:    actionsToStrings(state.ActiveActions),
		PromptInputs:     state.PromptInputs,
		CurrentView:      string(state.CurrentView),
		CuratorName:      state.CuratorName,
		PhoneNumber:      state.PhoneNumber,
		IsCartOpen:       state.IsCartOpen,
		Cart:             cart,
		UpdatedAt:        time.Now().UTC().Format(time.RFC3339),
	}

	_, _, err := c.supabase.From(tableSettings).
		Upsert(row, "session_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

func (c *Client) saveWorkstation(sessionID string, state *model.SessionState) error {
	row := workstationRow{
		SessionID:      sessionID,
		UploadedImage:  state.UploadedImage,
		CurrentImage:   state.CurrentImage,
		GeneratedImage: state.GeneratedImage,
		GeneratedTags:  state.GeneratedTags,
		LogoURL:        state.LogoURL,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	_, _, err := c.supabase.From(tableWorkstation).
		Upsert(row, "session_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert workstation: %w", err)
	}
	return nil
}

// SaveCatalogItem - upsert one catalog row. The primary image also gets an
// archival WebP copy in Supabase Storage so catalog rows can be trimmed
// later without losing the render.
func (c *Client) SaveCatalogItem(ctx context.Context, sessionID string, item *model.CatalogItem) error {
	archivePath, err := c.uploadArchiveImage(ctx, sessionID, item)
	if err != nil {
		// Archive upload is best effort; the row still carries the data URL.
		log.Printf("⚠️  [Database] Archive upload failed for item %s: %v", item.ID, err)
	}

	row := catalogRow{
		ItemID:      item.ID,
		SessionID:   sessionID,
		ImageURL:    item.ImageURL,
		Prompt:      item.Prompt,
		Actions:     actionsToStrings(item.Actions),
		Timestamp:   item.Timestamp,
		Tags:        item.Tags,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Variations:  item.Variations,
		ArchivePath: archivePath,
	}

	_, _, err = c.supabase.From(tableCatalog).
		Upsert(row, "item_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert catalog item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteCatalogItem - remove one catalog row
func (c *Client) DeleteCatalogItem(ctx context.Context, sessionID, itemID string) error {
	_, _, err := c.supabase.From(tableCatalog).
		Delete("", "").
		Eq("session_id", sessionID).
		Eq("item_id", itemID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete catalog item %s: %w", itemID, err)
	}

	log.Printf("🗑️  [Database] Catalog item %s deleted", itemID)
	return nil
}

// LoadSession - reconstruct the full session from the settings document,
// the workstation document, and the enumerated catalog rows. The catalog is
// re-sorted newest first regardless of row order.
func (c *Client) LoadSession(ctx context.Context, sessionID string) (*model.SessionState, error) {
	log.Printf("🔍 [Database] Loading session %s", sessionID)

	var settings []settingsRow
	data, _, err := c.supabase.From(tableSettings).
		Select("*", "exact", false).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if len(settings) == 0 {
		return nil, ErrNoSession
	}

	var workstations []workstationRow
	data, _, err = c.supabase.From(tableWorkstation).
		Select("*", "exact", false).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query workstation: %w", err)
	}
	if err := json.Unmarshal(data, &workstations); err != nil {
		return nil, fmt.Errorf("failed to parse workstation: %w", err)
	}

	var rows []catalogRow
	data, _, err = c.supabase.From(tableCatalog).
		Select("*", "exact", false).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp > rows[j].Timestamp })

	state := &model.SessionState{
		SourceType:       model.SourceType(settings[0].SourceType),
		SelectedPresetID: settings[0].SelectedPresetID,
		ActiveActions:    stringsToActions(settings[0].ActiveActions),
		PromptInputs:     settings[0].PromptInputs,
		CurrentView:      model.View(settings[0].CurrentView),
		CuratorName:      settings[0].CuratorName,
		PhoneNumber:      settings[0].PhoneNumber,
		IsCartOpen:       settings[0].IsCartOpen,
		GeneratedTags:    []string{},
		// The slider is not a stored column; loaded sessions start centered.
		SliderPosition: 50,
	}

	if len(workstations) > 0 {
		state.UploadedImage = workstations[0].UploadedImage
		state.CurrentImage = workstations[0].CurrentImage
		state.GeneratedImage = workstations[0].GeneratedImage
		state.LogoURL = workstations[0].LogoURL
		if workstations[0].GeneratedTags != nil {
			state.GeneratedTags = workstations[0].GeneratedTags
		}
	}

	state.Catalog = make([]model.CatalogItem, 0, len(rows))
	byID := make(map[string]*model.CatalogItem, len(rows))
	for _, row := range rows {
		item := model.CatalogItem{
			ID:          row.ItemID,
			ImageURL:    row.ImageURL,
			Prompt:      row.Prompt,
			Actions:     stringsToActions(row.Actions),
			Timestamp:   row.Timestamp,
			Tags:        row.Tags,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Variations:  row.Variations,
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.Variations == nil {
			item.Variations = []string{}
		}
		state.Catalog = append(state.Catalog, item)
		byID[item.ID] = &state.Catalog[len(state.Catalog)-1]
	}

	// Re-join the cart against the catalog; entries whose item is gone are
	// dropped so the cart never references a deleted catalog item.
	state.Cart = make([]model.CartItem, 0, len(settings[0].Cart))
	for _, entry := range settings[0].Cart {
		item, ok := byID[entry.ItemID]
		if !ok {
			continue
		}
		quantity := entry.Quantity
		if quantity < 1 {
			quantity = 1
		}
		state.Cart = append(state.Cart, model.CartItem{CatalogItem: *item, Quantity: quantity})
	}

	log.Printf("✅ [Database] Session %s loaded (catalog: %d, cart: %d)", sessionID, len(state.Catalog), len(state.Cart))
	return state, nil
}

// uploadArchiveImage - WebP re-encode the primary image and POST it to
// Supabase Storage, same upload path as generated renders
func (c *Client) uploadArchiveImage(ctx context.Context, sessionID string, item *model.CatalogItem) (string, error) {
	cfg := config.GetConfig()
	if cfg.SupabaseStorageBaseURL == "" {
		return "", nil
	}

	_, data, err := utils.DecodeDataURL(item.ImageURL)
	if err != nil {
		return "", fmt.Errorf("invalid item image: %w", err)
	}

	webpData, err := utils.ConvertToWebP(data, 90.0)
	if err != nil {
		return "", fmt.Errorf("failed to convert to WebP: %w", err)
	}

	filePath := fmt.Sprintf("catalog/%s/item_%s.webp", sessionID, item.ID)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/rosa-catalog/%s", cfg.SupabaseURL, filePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "image/webp")
	req.Header.Set("x-upsert", "true")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("📤 [Database] Archive uploaded: %s (%d bytes)", filePath, len(webpData))
	return filePath, nil
}

func actionsToStrings(actions []model.EditingAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}

func stringsToActions(values []string) []model.EditingAction {
	out := make([]model.EditingAction, 0, len(values))
	for _, v := range values {
		out = append(out, model.EditingAction(v))
	}
	return out
}
