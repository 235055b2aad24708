package gemini

import (
	"context"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

const maxRetries = 3

// generateWithRetry - retry transient failures (rate limit, overload) with a
// short backoff; everything else returns immediately
func generateWithRetry(
	ctx context.Context,
	client *genai.Client,
	model string,
	contents []*genai.Content,
	generateConfig *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {

	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			log.Printf("   🔄 [Gemini] Retry attempt %d/%d", attempt, maxRetries)
		}

		result, err := client.Models.GenerateContent(ctx, model, contents, generateConfig)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}

		log.Printf("⚠️  [Gemini] Transient failure on attempt %d/%d: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}

	return nil, lastErr
}

// isRetryable - 429 rate limits and 503 overloads are worth another try
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "overloaded") ||
		strings.Contains(errStr, "unavailable")
}
