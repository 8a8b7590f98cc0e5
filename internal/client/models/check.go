package models

// FlaggedIngredient is one match of an ingredient against an allergy or a
// dietary restriction, as reported by the backend.
type FlaggedIngredient struct {
	Ingredient string `json:"ingredient"`
	Type       string `json:"type"`
	Item       string `json:"item"`
}

// CheckResult is the outcome of the remote ingredient check. It is never
// stored on its own; the history item carries it.
type CheckResult struct {
	HasIssues bool                `json:"hasIssues"`
	Flagged   []FlaggedIngredient `json:"flagged"`
}
