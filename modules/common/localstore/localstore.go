package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"syscall"

	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/model"
)

// SchemaVersion - current on-disk session schema. Older blobs are migrated
// on load instead of being abandoned under a new storage key.
const SchemaVersion = 3

// ErrStorageFull - the disk is out of space; remediation differs from a
// generic write failure (the user can delete catalog items)
var ErrStorageFull = errors.New("local session storage is full")

// ErrNoSession - nothing saved yet for this session id
var ErrNoSession = errors.New("no saved session found")

// envelope - versioned wrapper around the session snapshot
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Store - whole-session JSON blob persistence, one file per session id
type Store struct {
	dir string
}

// NewStore - file store rooted at the configured session directory
func NewStore() (*Store, error) {
	dir := config.GetConfig().LocalSessionDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("rosa_session_%s.json", sessionID))
}

// Save - write the full session snapshot. Disk-full failures are reported
// as ErrStorageFull so the caller can suggest deleting catalog items.
func (s *Store) Save(sessionID string, state *model.SessionState) error {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	blob, err := json.Marshal(envelope{Version: SchemaVersion, State: stateBytes})
	if err != nil {
		return fmt.Errorf("failed to encode session envelope: %w", err)
	}

	if err := os.WriteFile(s.path(sessionID), blob, 0o644); err != nil {
		if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
			return fmt.Errorf("%w: %v", ErrStorageFull, err)
		}
		return fmt.Errorf("failed to write session file: %w", err)
	}

	log.Printf("💾 [LocalStore] Session %s saved (%d bytes)", sessionID, len(blob))
	return nil
}

// Load - read, migrate, and decode the session snapshot
func (s *Store) Load(sessionID string) (*model.SessionState, error) {
	blob, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil || env.State == nil {
		// Pre-versioning blobs were the bare state object.
		env = envelope{Version: 0, State: blob}
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(env.State, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse session blob: %w", err)
	}

	migrated, err := Migrate(env.Version, raw)
	if err != nil {
		return nil, err
	}

	stateBytes, err := json.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode migrated session: %w", err)
	}

	var state model.SessionState
	if err := json.Unmarshal(stateBytes, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if env.Version < SchemaVersion {
		log.Printf("🔧 [LocalStore] Session %s migrated v%d → v%d", sessionID, env.Version, SchemaVersion)
	}
	return &state, nil
}

// Migrate - pure schema migration on the raw field map. Each step defaults
// the fields its version introduced; unknown future versions pass through.
func Migrate(version int, raw map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	if version < 2 {
		// v2 introduced variations on catalog items and the cart.
		if err := defaultCatalogVariations(raw); err != nil {
			return nil, err
		}
		setDefault(raw, "cart", []byte(`[]`))
	}
	if version < 3 {
		// v3 introduced the lookbook branding and checkout fields.
		setDefault(raw, "phoneNumber", []byte(`""`))
		setDefault(raw, "curatorName", []byte(`""`))
		setDefault(raw, "logoUrl", []byte(`""`))
	}
	// Presence-based default at every version: a slider saved at 0 stays 0,
	// only a blob without the field gets centered.
	setDefault(raw, "sliderPosition", []byte(`50`))
	return raw, nil
}

func setDefault(raw map[string]json.RawMessage, key string, value json.RawMessage) {
	if existing, ok := raw[key]; !ok || string(existing) == "null" {
		raw[key] = value
	}
}

func defaultCatalogVariations(raw map[string]json.RawMessage) error {
	catalogBytes, ok := raw["catalog"]
	if !ok || string(catalogBytes) == "null" {
		raw["catalog"] = []byte(`[]`)
		return nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(catalogBytes, &items); err != nil {
		return fmt.Errorf("failed to parse catalog during migration: %w", err)
	}

	for _, item := range items {
		setDefault(item, "variations", []byte(`[]`))
		setDefault(item, "tags", []byte(`[]`))
		setDefault(item, "name", []byte(`""`))
		setDefault(item, "description", []byte(`""`))
		setDefault(item, "price", []byte(`""`))
	}

	migrated, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to re-encode catalog during migration: %w", err)
	}
	raw["catalog"] = migrated
	return nil
}
