package cart

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/studio"
)

const (
	msgItemNotFound = "Catalog item not found."
	msgMissingPhone = "Configure o número de WhatsApp nas configurações antes de finalizar o pedido."
	msgEmptyCart    = "O carrinho está vazio."
)

type Service struct {
	store *studio.Store
}

func NewService(store *studio.Store) *Service {
	return &Service{store: store}
}

// Add - put a catalog item in the cart. An id already present gets its
// quantity bumped instead of a duplicate row. Always opens the cart panel.
func (s *Service) Add(sessionID, itemID string) *studio.StateResponse {
	found := false
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		var source *model.CatalogItem
		for i := range st.Catalog {
			if st.Catalog[i].ID == itemID {
				source = &st.Catalog[i]
				break
			}
		}
		if source == nil {
			return
		}
		found = true

		for i := range st.Cart {
			if st.Cart[i].ID == itemID {
				st.Cart[i].Quantity++
				st.IsCartOpen = true
				return
			}
		}
		st.Cart = append(st.Cart, model.CartItem{
			CatalogItem: *source.Clone(),
			Quantity:    1,
		})
		st.IsCartOpen = true
	})
	if !found {
		return studio.Fail(snapshot, model.ErrCodeNotFound, msgItemNotFound)
	}
	return studio.OK(snapshot)
}

// UpdateQuantity - apply a delta with a floor of 1. Going below 1 is a
// no-op floor, not a removal.
func (s *Service) UpdateQuantity(sessionID, itemID string, delta int) *studio.StateResponse {
	found := false
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		for i := range st.Cart {
			if st.Cart[i].ID != itemID {
				continue
			}
			st.Cart[i].Quantity += delta
			if st.Cart[i].Quantity < 1 {
				st.Cart[i].Quantity = 1
			}
			found = true
			return
		}
	})
	if !found {
		return studio.Fail(snapshot, model.ErrCodeNotFound, msgItemNotFound)
	}
	return studio.OK(snapshot)
}

// Remove - delete a cart entry by id
func (s *Service) Remove(sessionID, itemID string) *studio.StateResponse {
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		for i := range st.Cart {
			if st.Cart[i].ID == itemID {
				st.Cart = append(st.Cart[:i], st.Cart[i+1:]...)
				return
			}
		}
	})
	return studio.OK(snapshot)
}

// SetOpen - show or hide the cart panel
func (s *Service) SetOpen(sessionID string, open bool) *studio.StateResponse {
	snapshot := s.store.Update(sessionID, func(st *model.SessionState) {
		st.IsCartOpen = open
	})
	return studio.OK(snapshot)
}

// ParsePrice - extract a number from a user-entered price string by
// stripping every rune that is not a digit or a dot. Unparseable input
// counts as zero. Decimal-comma locale strings are not special-cased:
// "R$ 120,00" becomes 12000.
func ParsePrice(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// Total - estimated cart total: parsed price × quantity, summed
func Total(cart []model.CartItem) float64 {
	var total float64
	for _, item := range cart {
		total += ParsePrice(item.Price) * float64(item.Quantity)
	}
	return total
}

// Checkout - build the WhatsApp handoff link for the session's cart.
// Refused without a configured contact number; the number is normalized to
// digits and the order message is URL-escaped into a wa.me deep link.
func (s *Service) Checkout(sessionID string) *CheckoutResponse {
	snapshot := s.store.Snapshot(sessionID)

	if len(snapshot.Cart) == 0 {
		return &CheckoutResponse{
			Success:      false,
			ErrorMessage: msgEmptyCart,
			ErrorCode:    model.ErrCodeInvalidRequest,
		}
	}

	phone := digitsOnly(snapshot.PhoneNumber)
	if phone == "" {
		return &CheckoutResponse{
			Success:      false,
			ErrorMessage: msgMissingPhone,
			ErrorCode:    model.ErrCodeMissingPhone,
		}
	}

	message := ComposeOrderMessage(snapshot.Cart)
	return &CheckoutResponse{
		Success: true,
		URL:     "https://wa.me/" + phone + "?text=" + url.QueryEscape(message),
		Message: message,
	}
}

// ComposeOrderMessage - the numbered order text sent over WhatsApp
func ComposeOrderMessage(cart []model.CartItem) string {
	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer um pedido:\n\n")

	for i, item := range cart {
		name := item.Name
		if name == "" {
			name = "Item sem nome"
		}
		price := "TBD"
		if parsed := ParsePrice(item.Price); parsed > 0 {
			price = item.Price
		}
		fmt.Fprintf(&b, "%d. %dx %s (Ref: %s) - %s\n", i+1, item.Quantity, name, RefCode(item.ID), price)
	}

	if total := Total(cart); total > 0 {
		fmt.Fprintf(&b, "\nTotal estimado: R$ %.2f\n", total)
	}

	b.WriteString("\nAguardo a confirmação. Obrigado!")
	return b.String()
}

// RefCode - short reference derived from the item id (its last 4 digits)
func RefCode(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
