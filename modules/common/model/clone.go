package model

// Clone - deep copy of the session state. Snapshots handed to broadcast or
// persistence must not alias the live slices and maps mutated under the
// session lock.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s

	out.ActiveActions = append([]EditingAction(nil), s.ActiveActions...)
	out.GeneratedTags = append([]string(nil), s.GeneratedTags...)

	out.PromptInputs = make(map[string]string, len(s.PromptInputs))
	for k, v := range s.PromptInputs {
		out.PromptInputs[k] = v
	}

	out.Catalog = make([]CatalogItem, len(s.Catalog))
	for i := range s.Catalog {
		out.Catalog[i] = *s.Catalog[i].Clone()
	}

	out.Cart = make([]CartItem, len(s.Cart))
	for i := range s.Cart {
		out.Cart[i] = CartItem{
			CatalogItem: *s.Cart[i].CatalogItem.Clone(),
			Quantity:    s.Cart[i].Quantity,
		}
	}

	return &out
}

// Clone - deep copy of a catalog item
func (c *CatalogItem) Clone() *CatalogItem {
	if c == nil {
		return nil
	}
	out := *c
	out.Actions = append([]EditingAction(nil), c.Actions...)
	out.Tags = append([]string(nil), c.Tags...)
	out.Variations = append([]string(nil), c.Variations...)
	return &out
}
