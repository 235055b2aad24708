package lookbook

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/jpeg"
	"log"
	"time"

	"github.com/disintegration/imaging"

	"rosa-studio-server/modules/cart"
	"rosa-studio-server/modules/common/utils"
	"rosa-studio-server/modules/studio"
)

// thumbnail settings for the printable document; full-size generated
// images would blow up the page weight
const (
	thumbMaxWidth = 600
	thumbQuality  = 80
)

type Service struct {
	store *studio.Store
}

func NewService(store *studio.Store) *Service {
	return &Service{store: store}
}

type pageData struct {
	CuratorName string
	LogoURL     template.URL
	GeneratedAt string
	Items       []pageItem
}

type pageItem struct {
	Image       template.URL
	Name        string
	Description string
	Price       string
	Ref         string
	Tags        string
}

// RenderHTML - the printable lookbook for a session's catalog, newest
// first. Every catalog item appears exactly once.
func (s *Service) RenderHTML(sessionID string) (string, error) {
	snapshot := s.store.Snapshot(sessionID)

	data := pageData{
		CuratorName: snapshot.CuratorName,
		GeneratedAt: time.Now().Format("02/01/2006"),
	}
	if data.CuratorName == "" {
		data.CuratorName = "Lookbook"
	}
	if snapshot.LogoURL != "" {
		data.LogoURL = template.URL(snapshot.LogoURL)
	}

	for _, item := range snapshot.Catalog {
		name := item.Name
		if name == "" {
			name = "Sem nome"
		}
		price := item.Price
		if price == "" {
			price = "Sob consulta"
		}
		tags := ""
		for i, tag := range item.Tags {
			if i > 0 {
				tags += " "
			}
			tags += tag
		}
		data.Items = append(data.Items, pageItem{
			Image:       template.URL(s.thumbnail(item.ImageURL)),
			Name:        name,
			Description: item.Description,
			Price:       price,
			Ref:         cart.RefCode(item.ID),
			Tags:        tags,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render lookbook: %w", err)
	}
	return buf.String(), nil
}

// thumbnail - downscale a base64 image for print layout. Falls back to the
// original payload when the image cannot be decoded.
func (s *Service) thumbnail(dataURL string) string {
	_, raw, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		return dataURL
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return dataURL
	}
	if img.Bounds().Dx() > thumbMaxWidth {
		img = imaging.Resize(img, thumbMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbQuality}); err != nil {
		log.Printf("⚠️  [Lookbook] Thumbnail encode failed, keeping original: %v", err)
		return dataURL
	}
	return utils.EncodeDataURL("image/jpeg", buf.Bytes())
}

var pageTemplate = template.Must(template.New("lookbook").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.CuratorName}} — Lookbook</title>
<style>
  body { font-family: Georgia, serif; color: #2d2d2d; margin: 0; padding: 24px 32px; }
  header { text-align: center; margin-bottom: 32px; page-break-after: avoid; }
  header img { max-height: 80px; margin-bottom: 12px; }
  header h1 { font-size: 28px; letter-spacing: 2px; text-transform: uppercase; margin: 0; }
  header p { color: #8a8a8a; font-size: 12px; margin-top: 4px; }
  .item { display: flex; gap: 24px; padding: 24px 0; border-bottom: 1px solid #e5e5e5; page-break-inside: avoid; }
  .item img { width: 260px; border-radius: 8px; object-fit: cover; }
  .item h2 { font-size: 20px; margin: 0 0 4px; }
  .ref { color: #8a8a8a; font-size: 11px; letter-spacing: 1px; }
  .price { font-size: 16px; font-weight: bold; margin: 8px 0; }
  .desc { font-size: 13px; line-height: 1.5; }
  .tags { color: #b0628a; font-size: 11px; margin-top: 8px; word-break: break-word; }
  .empty { text-align: center; color: #8a8a8a; padding: 64px 0; }
</style>
</head>
<body>
<header>
  {{if .LogoURL}}<img src="{{.LogoURL}}" alt="logo">{{end}}
  <h1>{{.CuratorName}}</h1>
  <p>Lookbook &middot; {{.GeneratedAt}}</p>
</header>
{{if not .Items}}<p class="empty">Nenhum item no catálogo ainda.</p>{{end}}
{{range .Items}}
<div class="item">
  <img src="{{.Image}}" alt="{{.Name}}">
  <div>
    <h2>{{.Name}}</h2>
    <div class="ref">REF {{.Ref}}</div>
    <div class="price">{{.Price}}</div>
    <div class="desc">{{.Description}}</div>
    <div class="tags">{{.Tags}}</div>
  </div>
</div>
{{end}}
</body>
</html>
`))
