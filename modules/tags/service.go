package tags

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/composer"
	"rosa-studio-server/modules/studio"
)

// TextGenerator - the trend/tag collaborator. Hashtag generation runs the
// search-grounded text model so the tags reflect what is currently trending.
type TextGenerator interface {
	GenerateTextWithSearch(ctx context.Context, prompt string) (string, error)
}

// hashtagPattern - accepts accented Portuguese letters inside a tag
var hashtagPattern = regexp.MustCompile(`#[a-zA-Z0-9\x{00C0}-\x{00FF}]+`)

type Service struct {
	store  *studio.Store
	gemini TextGenerator
}

func NewService(store *studio.Store, geminiClient TextGenerator) *Service {
	return &Service{store: store, gemini: geminiClient}
}

// Generate - produce Brazilian-Portuguese fashion hashtags for the current
// edit context. Failure is non-fatal: the busy flag clears and the previous
// tags stay.
func (s *Service) Generate(ctx context.Context, sessionID string) *studio.StateResponse {
	var tagContext string
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		st.IsGeneratingTags = true
		st.StatusMessage = ""
		tagContext = composer.TagContext(st)
	})

	text, err := s.gemini.GenerateTextWithSearch(ctx, instruction(tagContext))
	if err != nil {
		log.Printf("❌ [Tags] Generation failed for session %s: %v", sessionID, err)
		snapshot = s.store.Update(sessionID, func(st *model.SessionState) {
			st.IsGeneratingTags = false
		})
		return studio.Fail(snapshot, model.ErrCodeInternalError, "Failed to generate tags.")
	}

	tags := ExtractHashtags(text)
	snapshot = s.store.Update(sessionID, func(st *model.SessionState) {
		st.IsGeneratingTags = false
		st.GeneratedTags = tags
	})
	log.Printf("🏷️  [Tags] %d tags generated for session %s", len(tags), sessionID)
	return studio.OK(snapshot)
}

// CopyTags - the "tags copied" acknowledgement; the copy itself happens
// client-side
func (s *Service) CopyTags(sessionID string) *studio.StateResponse {
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		if len(st.GeneratedTags) > 0 {
			st.StatusMessage = "Tags copied to clipboard!"
		}
	})
	return studio.OK(snapshot)
}

func instruction(context string) string {
	return fmt.Sprintf(`Find popular and trending Instagram/TikTok hashtags in Portuguese (Brazil) that would help people find a post about: "%s".
Focus on fashion, style, trends, and the specific visual elements described.
Return strictly a list of 15-20 hashtags separated by spaces. Example output: #moda #lookdodia #fashionstyle`, context)
}

// ExtractHashtags - pull clean #tags out of model output. When the model
// answered without # markers, fall back to splitting on whitespace and
// prefixing each word.
func ExtractHashtags(text string) []string {
	tags := hashtagPattern.FindAllString(text, -1)
	if len(tags) > 0 {
		return tags
	}

	var fallback []string
	for _, w := range strings.Fields(text) {
		if len(w) <= 2 {
			continue
		}
		if !strings.HasPrefix(w, "#") {
			w = "#" + w
		}
		fallback = append(fallback, w)
	}
	return fallback
}
