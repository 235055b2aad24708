package model

// EditingAction - one selectable edit on the workstation
type EditingAction string

const (
	ActionBackgroundSwap EditingAction = "BACKGROUND_SWAP"
	ActionOutfitSwap     EditingAction = "OUTFIT_SWAP"
	ActionPoseSwap       EditingAction = "POSE_SWAP"
	ActionShoesSwap      EditingAction = "SHOES_SWAP"
	ActionBagSwap        EditingAction = "BAG_SWAP"
	ActionColorChange    EditingAction = "COLOR_CHANGE"
	ActionFreeform       EditingAction = "FREEFORM"
)

// AllActions - every action in display order
var AllActions = []EditingAction{
	ActionBackgroundSwap,
	ActionOutfitSwap,
	ActionPoseSwap,
	ActionShoesSwap,
	ActionBagSwap,
	ActionColorChange,
	ActionFreeform,
}

// IsValidAction - action tag validation for request payloads
func IsValidAction(a EditingAction) bool {
	for _, v := range AllActions {
		if v == a {
			return true
		}
	}
	return false
}

// SourceType - where the current base image comes from
type SourceType string

const (
	SourcePreset SourceType = "PRESET"
	SourceUpload SourceType = "UPLOAD"
)

// View - display selector for the client
type View string

const (
	ViewStudio   View = "STUDIO"
	ViewCatalog  View = "CATALOG"
	ViewLookbook View = "LOOKBOOK"
)

// IsValidView - view tag validation
func IsValidView(v View) bool {
	return v == ViewStudio || v == ViewCatalog || v == ViewLookbook
}

// ProductPreset - a fixed template product photo
type ProductPreset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProductPresets - the built-in template catalog
var ProductPresets = []ProductPreset{
	{
		ID:   "p1",
		Name: "Vestido Midi Rosa Claro Soltinho",
		URL:  "https://images.unsplash.com/photo-1595777457583-95e059d581b8?q=80&w=1000&auto=format&fit=crop",
	},
	{
		ID:   "p2",
		Name: "Casual White Summer Dress",
		URL:  "https://images.unsplash.com/photo-1515347619252-60a6bf4fffce?q=80&w=1000&auto=format&fit=crop",
	},
	{
		ID:   "p3",
		Name: "Professional Black Blazer Suit",
		URL:  "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?q=80&w=1000&auto=format&fit=crop",
	},
}

// FindPreset - preset lookup by id, nil when unknown
func FindPreset(id string) *ProductPreset {
	for i := range ProductPresets {
		if ProductPresets[i].ID == id {
			return &ProductPresets[i]
		}
	}
	return nil
}

// CatalogItem - a saved, annotated product image
type CatalogItem struct {
	ID       string          `json:"id"`
	ImageURL string          `json:"imageUrl"` // base64 data URL
	Prompt   string          `json:"prompt"`
	Actions  []EditingAction `json:"actions"`
	// Unix milliseconds at creation; the id is derived from it
	Timestamp   int64    `json:"timestamp"`
	Tags        []string `json:"tags"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"` // stored unparsed, user-entered
	Variations  []string `json:"variations"`
}

// CartItem - a catalog item plus a quantity counter (>= 1)
type CartItem struct {
	CatalogItem
	Quantity int `json:"quantity"`
}

// SessionState - the aggregate root of one studio session.
// All mutation goes through the session store; there is exactly one
// logical writer per session.
type SessionState struct {
	SourceType       SourceType        `json:"sourceType"`
	SelectedPresetID string            `json:"selectedPresetId"`
	UploadedImage    string            `json:"uploadedImage,omitempty"`
	CurrentImage     string            `json:"currentImage,omitempty"`
	ActiveActions    []EditingAction   `json:"activeActions"`
	PromptInputs     map[string]string `json:"promptInputs"`

	IsGenerating          bool   `json:"isGenerating"`
	IsGeneratingTags      bool   `json:"isGeneratingTags"`
	IsEnhancingPrompt     bool   `json:"isEnhancingPrompt"`
	GeneratingVariationID string `json:"generatingVariationId,omitempty"`

	GeneratedImage string   `json:"generatedImage,omitempty"`
	GeneratedTags  []string `json:"generatedTags"`
	Error          string   `json:"error,omitempty"`
	StatusMessage  string   `json:"statusMessage,omitempty"`
	SliderPosition int      `json:"sliderPosition"`

	Catalog     []CatalogItem `json:"catalog"`
	Cart        []CartItem    `json:"cart"`
	IsCartOpen  bool          `json:"isCartOpen"`
	CurrentView View          `json:"currentView"`

	CuratorName string `json:"curatorName"`
	PhoneNumber string `json:"phoneNumber"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

// VariationJob - one queued variation generation, stored as JSON on the
// Redis queue
type VariationJob struct {
	JobID     string `json:"job_id"`
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
}

// Job status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Error codes surfaced in API responses
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeBusy               = "GENERATION_IN_PROGRESS"
	ErrCodeMissingImage       = "MISSING_IMAGE"
	ErrCodeEmptyPrompt        = "EMPTY_PROMPT"
	ErrCodeUploadTooLarge     = "UPLOAD_TOO_LARGE"
	ErrCodeQuotaExhausted     = "QUOTA_EXHAUSTED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeSafetyBlocked      = "SAFETY_BLOCKED"
	ErrCodeStorageFull        = "STORAGE_FULL"
	ErrCodeMissingPhone       = "MISSING_PHONE_NUMBER"
	ErrCodeNotFound           = "NOT_FOUND"
)
