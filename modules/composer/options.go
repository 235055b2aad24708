package composer

import "rosa-studio-server/modules/common/model"

// ActionOption - display metadata for one editing action, served to clients
// so the toolbar and input placeholders stay in sync with the server
type ActionOption struct {
	Value       model.EditingAction `json:"value"`
	Label       string              `json:"label"`
	ShortLabel  string              `json:"shortLabel"`
	Placeholder string              `json:"placeholder"`
}

var ActionOptions = []ActionOption{
	{
		Value:       model.ActionBackgroundSwap,
		Label:       "Cenário (Background)",
		ShortLabel:  "Background",
		Placeholder: "e.g., luxury retail store, beach at sunset",
	},
	{
		Value:       model.ActionOutfitSwap,
		Label:       "Look (Outfit)",
		ShortLabel:  "Outfit",
		Placeholder: "e.g., floral summer dress, red tuxedo",
	},
	{
		Value:       model.ActionPoseSwap,
		Label:       "Pose",
		ShortLabel:  "Pose",
		Placeholder: "e.g., hands on hips, walking confidently",
	},
	{
		Value:       model.ActionShoesSwap,
		Label:       "Sapatos (Shoes)",
		ShortLabel:  "Shoes",
		Placeholder: "e.g., red stiletto heels, white sneakers",
	},
	{
		Value:       model.ActionBagSwap,
		Label:       "Bolsa (Bag)",
		ShortLabel:  "Bag",
		Placeholder: "e.g., beige leather tote bag",
	},
	{
		Value:       model.ActionColorChange,
		Label:       "Cor (Color)",
		ShortLabel:  "Color",
		Placeholder: "e.g., change the dress to navy blue",
	},
	{
		Value:       model.ActionFreeform,
		Label:       "Livre (Freeform)",
		ShortLabel:  "Freeform",
		Placeholder: "Describe any change you want...",
	},
}
