package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log"
	"net/http"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // register WebP decoder
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// DecodeDataURL - split a "data:<mime>;base64,<payload>" string into its
// MIME type and raw bytes
func DecodeDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}

	rest := strings.TrimPrefix(dataURL, "data:")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, fmt.Errorf("invalid base64 data URL format")
	}

	mimeType := rest[:sep]
	if mimeType == "" {
		mimeType = "image/png"
	}

	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return mimeType, data, nil
}

// EncodeDataURL - build a base64 data URL from raw image bytes
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DataURLSize - decoded payload size of a data URL without decoding it.
// Used to enforce upload caps before touching file contents.
func DataURLSize(dataURL string) int64 {
	sep := strings.Index(dataURL, ";base64,")
	if sep < 0 {
		return int64(len(dataURL))
	}
	payload := dataURL[sep+len(";base64,"):]
	padding := int64(strings.Count(payload[max(0, len(payload)-2):], "="))
	return int64(len(payload))/4*3 - padding
}

// FetchImageAsDataURL - download a remote image and normalize it into a
// base64 data URL, the way preset template photos are loaded
func FetchImageAsDataURL(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	log.Printf("✅ Image downloaded: %d bytes (%s)", len(data), mimeType)
	return EncodeDataURL(mimeType, data), nil
}

// ConvertToWebP - re-encode any decodable image as lossy WebP to bound
// stored document size
func ConvertToWebP(imageData []byte, quality float32) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Printf("✅ %s converted to WebP: %d bytes → %d bytes (%.1f%% reduction)",
		format, len(imageData), len(webpData),
		float64(len(imageData)-len(webpData))/float64(len(imageData))*100)

	return webpData, nil
}
