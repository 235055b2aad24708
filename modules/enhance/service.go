package enhance

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

// TextGenerator - the prompt-rewriting collaborator
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	store  *studio.Store
	gemini TextGenerator
}

func NewService(store *studio.Store, geminiClient TextGenerator) *Service {
	return &Service{store: store, gemini: geminiClient}
}

// Enhance - rewrite one action's input into a more descriptive prompt.
// Best effort: on failure the original input stays and the busy flag
// simply clears.
func (s *Service) Enhance(ctx context.Context, sessionID string, action model.EditingAction) *studio.StateResponse {
	var current string
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		current = st.PromptInputs[string(action)]
		if current == "" {
			return
		}
		st.IsEnhancingPrompt = true
		st.StatusMessage = ""
	})
	if current == "" {
		return studio.Fail(snapshot, model.ErrCodeEmptyPrompt, "Nothing to enhance for this action.")
	}

	improved, err := s.gemini.GenerateText(ctx, instruction(current, action))
	improved = strings.TrimSpace(improved)

	snapshot = s.store.Update(sessionID, func(st *model.SessionState) {
		st.IsEnhancingPrompt = false
		if err != nil || improved == "" {
			return
		}
		// The user may have kept typing while the rewrite ran; only
		// replace what the rewrite was based on.
		if st.PromptInputs[string(action)] == current {
			st.PromptInputs[string(action)] = improved
		}
	})
	if err != nil {
		log.Printf("⚠️  [Enhance] Rewrite failed for session %s, input kept: %v", sessionID, err)
	}
	return studio.OK(snapshot)
}

func instruction(currentPrompt string, action model.EditingAction) string {
	return fmt.Sprintf(`You are a professional fashion photographer and AI prompter. Rewrite the following user prompt to be more descriptive, focusing on lighting, fabric texture, and realistic details to get the best result from an image generation model.

User Prompt: "%s"
Context/Action: %s

Keep it concise (under 40 words) but impactful. Do not add conversational text, just return the improved prompt string.`, currentPrompt, action)
}
