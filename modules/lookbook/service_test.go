package lookbook

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/common/utils"
	"rosa-studio-server/modules/studio"
)

func tinyPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 220, G: 150, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return utils.EncodeDataURL("image/png", buf.Bytes())
}

func TestRenderHTMLIncludesEveryItemOnce(t *testing.T) {
	store := studio.NewStore()
	svc := NewService(store)
	imageData := tinyPNG(t)

	store.Update("s1", func(st *model.SessionState) {
		st.CuratorName = "Maria Rosa"
		st.Catalog = []model.CatalogItem{
			{ID: "1700000000002", ImageURL: imageData, Name: "Vestido Novo", Price: "R$ 180.00", Timestamp: 2},
			{ID: "1700000000001", ImageURL: imageData, Name: "Vestido Antigo", Description: "Midi floral", Timestamp: 1, Tags: []string{"#moda", "#vestido"}},
		}
	})

	html, err := svc.RenderHTML("s1")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(html, "<h2>Vestido Novo</h2>"))
	assert.Equal(t, 1, strings.Count(html, "<h2>Vestido Antigo</h2>"))
	assert.Less(t, strings.Index(html, "<h2>Vestido Novo</h2>"), strings.Index(html, "<h2>Vestido Antigo</h2>"),
		"newest item renders first")
	assert.Contains(t, html, "Maria Rosa")
	assert.Contains(t, html, "REF 0002")
	assert.Contains(t, html, "Sob consulta", "missing price falls back")
	assert.Contains(t, html, "Midi floral")
	assert.Contains(t, html, "#moda #vestido")
	assert.Contains(t, html, "data:image/jpeg;base64,", "thumbnails re-encode as JPEG")
}

func TestRenderHTMLEmptyCatalog(t *testing.T) {
	store := studio.NewStore()
	svc := NewService(store)

	html, err := svc.RenderHTML("empty")
	require.NoError(t, err)
	assert.Contains(t, html, "Nenhum item no catálogo ainda.")
	assert.Contains(t, html, "Lookbook", "curator fallback title")
}

func TestThumbnailKeepsUndecodablePayload(t *testing.T) {
	svc := NewService(studio.NewStore())
	raw := "data:image/png;base64,bm90LWFuLWltYWdl"
	assert.Equal(t, raw, svc.thumbnail(raw))
}
