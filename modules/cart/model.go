package cart

// CheckoutResponse - the WhatsApp handoff. The deep link is opened
// client-side; nothing is sent by the server.
type CheckoutResponse struct {
	Success      bool   `json:"success"`
	URL          string `json:"url,omitempty"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
}

type AddRequest struct {
	ItemID string `json:"itemId"`
}

type QuantityRequest struct {
	ItemID string `json:"itemId"`
	Delta  int    `json:"delta"`
}

type RemoveRequest struct {
	ItemID string `json:"itemId"`
}
