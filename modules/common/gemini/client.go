package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
	"rosa-studio-server/modules/common/config"
	"rosa-studio-server/modules/common/utils"
)

// Client - thin wrapper around the genai SDK for the three text/image
// collaborators this server consumes
type Client struct {
	genaiClient *genai.Client
	imageModel  string
	textModel   string
}

// NewClient - create the genai client (API key backend)
func NewClient(ctx context.Context) (*Client, error) {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	log.Printf("✅ [Gemini] Client initialized (image=%s, text=%s)", cfg.GeminiImageModel, cfg.GeminiTextModel)
	return &Client{
		genaiClient: genaiClient,
		imageModel:  cfg.GeminiImageModel,
		textModel:   cfg.GeminiTextModel,
	}, nil
}

// EditImage - send a source image plus an instruction to the image model and
// return the generated image as a base64 data URL
func (c *Client) EditImage(ctx context.Context, imageDataURL, prompt string) (string, error) {
	mimeType, data, err := utils.DecodeDataURL(imageDataURL)
	if err != nil {
		return "", fmt.Errorf("invalid source image: %w", err)
	}

	log.Printf("🎨 [Gemini] Calling image model %s (prompt length: %d)", c.imageModel, len(prompt))

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mimeType),
		},
	}

	result, err := generateWithRetry(ctx, c.genaiClient, c.imageModel, []*genai.Content{content}, nil)
	if err != nil {
		return "", Classify(err)
	}

	if len(result.Candidates) == 0 {
		return "", Classify(fmt.Errorf("no candidates in response"))
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Gemini] Received image: %d bytes", len(part.InlineData.Data))
				outMime := part.InlineData.MIMEType
				if outMime == "" {
					outMime = "image/png"
				}
				return utils.EncodeDataURL(outMime, part.InlineData.Data), nil
			}
		}
	}

	return "", Classify(fmt.Errorf("no image data in response"))
}

// GenerateText - plain text generation against the text model
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}

	result, err := generateWithRetry(ctx, c.genaiClient, c.textModel, []*genai.Content{content}, nil)
	if err != nil {
		return "", Classify(err)
	}

	return extractText(result), nil
}

// GenerateTextWithSearch - text generation with the Google Search tool
// enabled, used for trend-aware hashtag lookups
func (c *Client) GenerateTextWithSearch(ctx context.Context, prompt string) (string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}

	generateConfig := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	result, err := generateWithRetry(ctx, c.genaiClient, c.textModel, []*genai.Content{content}, generateConfig)
	if err != nil {
		return "", Classify(err)
	}

	return extractText(result), nil
}

// extractText - concatenate text parts of the first candidate
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
