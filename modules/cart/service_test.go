package cart

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

func newTestCart(t *testing.T) (*Service, *studio.Store) {
	t.Helper()
	store := studio.NewStore()
	return NewService(store), store
}

func seedCatalog(store *studio.Store, sessionID string, items ...model.CatalogItem) {
	store.Update(sessionID, func(st *model.SessionState) {
		st.Catalog = items
	})
}

func TestAddIncrementsExisting(t *testing.T) {
	svc, store := newTestCart(t)
	seedCatalog(store, "s1", model.CatalogItem{ID: "1700000000001", Name: "Vestido"})

	first := svc.Add("s1", "1700000000001")
	require.True(t, first.Success)
	require.Len(t, first.State.Cart, 1)
	assert.Equal(t, 1, first.State.Cart[0].Quantity)
	assert.True(t, first.State.IsCartOpen, "adding opens the cart panel")

	second := svc.Add("s1", "1700000000001")
	require.Len(t, second.State.Cart, 1, "same id never duplicates")
	assert.Equal(t, 2, second.State.Cart[0].Quantity)
}

func TestAddUnknownItem(t *testing.T) {
	svc, _ := newTestCart(t)
	resp := svc.Add("s1", "missing")
	assert.False(t, resp.Success)
	assert.Equal(t, model.ErrCodeNotFound, resp.ErrorCode)
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	svc, store := newTestCart(t)
	seedCatalog(store, "s1", model.CatalogItem{ID: "1700000000001"})
	svc.Add("s1", "1700000000001")
	svc.Add("s1", "1700000000001")

	resp := svc.UpdateQuantity("s1", "1700000000001", -5)
	require.True(t, resp.Success)
	assert.Equal(t, 1, resp.State.Cart[0].Quantity, "decrement below 1 floors, never removes")

	resp = svc.UpdateQuantity("s1", "1700000000001", 3)
	assert.Equal(t, 4, resp.State.Cart[0].Quantity)
}

func TestRemove(t *testing.T) {
	svc, store := newTestCart(t)
	seedCatalog(store, "s1", model.CatalogItem{ID: "a1"}, model.CatalogItem{ID: "b2"})
	svc.Add("s1", "a1")
	svc.Add("s1", "b2")

	resp := svc.Remove("s1", "a1")
	require.Len(t, resp.State.Cart, 1)
	assert.Equal(t, "b2", resp.State.Cart[0].ID)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"R$ 120.00", 120.0},
		{"$99.90", 99.9},
		{"abc", 0},
		{"", 0},
		// Decimal-comma input is mishandled on purpose: the comma is
		// stripped, not treated as a separator.
		{"$120,00", 12000},
		{"1.2.3", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrice(tt.in), "ParsePrice(%q)", tt.in)
	}
}

func TestTotal(t *testing.T) {
	cart := []model.CartItem{
		{CatalogItem: model.CatalogItem{ID: "1", Price: "R$ 120.00"}, Quantity: 2},
		{CatalogItem: model.CatalogItem{ID: "2", Price: "abc"}, Quantity: 3},
	}
	assert.Equal(t, 240.0, Total(cart))
}

func TestComposeOrderMessage(t *testing.T) {
	cart := []model.CartItem{
		{CatalogItem: model.CatalogItem{ID: "1700000001234", Name: "Vestido Midi", Price: "R$ 120.00"}, Quantity: 2},
		{CatalogItem: model.CatalogItem{ID: "1700000005678", Name: "", Price: ""}, Quantity: 1},
	}

	msg := ComposeOrderMessage(cart)

	assert.True(t, strings.HasPrefix(msg, "Olá! Gostaria de fazer um pedido:"))
	assert.Contains(t, msg, "1. 2x Vestido Midi (Ref: 1234) - R$ 120.00")
	assert.Contains(t, msg, "2. 1x Item sem nome (Ref: 5678) - TBD")
	assert.Contains(t, msg, "Total estimado: R$ 240.00")
	assert.True(t, strings.HasSuffix(msg, "Aguardo a confirmação. Obrigado!"))
}

func TestComposeOrderMessageOmitsZeroTotal(t *testing.T) {
	cart := []model.CartItem{
		{CatalogItem: model.CatalogItem{ID: "x1", Name: "Casaco"}, Quantity: 1},
	}
	msg := ComposeOrderMessage(cart)
	assert.NotContains(t, msg, "Total estimado")
}

func TestCheckout(t *testing.T) {
	svc, store := newTestCart(t)
	seedCatalog(store, "s1", model.CatalogItem{ID: "1700000001234", Name: "Vestido", Price: "R$ 120.00"})
	svc.Add("s1", "1700000001234")

	t.Run("refused without a phone number", func(t *testing.T) {
		resp := svc.Checkout("s1")
		assert.False(t, resp.Success)
		assert.Equal(t, model.ErrCodeMissingPhone, resp.ErrorCode)
		assert.Empty(t, resp.URL)
	})

	t.Run("builds the wa.me deep link", func(t *testing.T) {
		store.Update("s1", func(st *model.SessionState) {
			st.PhoneNumber = "+55 (11) 99999-0000"
		})

		resp := svc.Checkout("s1")
		require.True(t, resp.Success)
		assert.True(t, strings.HasPrefix(resp.URL, "https://wa.me/5511999990000?text="), resp.URL)

		parsed, err := url.Parse(resp.URL)
		require.NoError(t, err)
		assert.Equal(t, resp.Message, parsed.Query().Get("text"))
	})

	t.Run("refused on an empty cart", func(t *testing.T) {
		resp := svc.Checkout("empty-session")
		assert.False(t, resp.Success)
		assert.Equal(t, model.ErrCodeInvalidRequest, resp.ErrorCode)
	})
}

func TestRefCode(t *testing.T) {
	assert.Equal(t, "1234", RefCode("1700000001234"))
	assert.Equal(t, "ab", RefCode("ab"))
}
