package catalog

// Editable catalog item fields
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type VariationIndexRequest struct {
	Index int `json:"index"`
}

// VariationEvent - pushed over the WebSocket hub when a queued variation
// finishes
type VariationEvent struct {
	JobID   string `json:"jobId"`
	ItemID  string `json:"itemId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
