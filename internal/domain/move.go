package domain

// MoveKind tags the seven reversible move types.
type MoveKind string

const (
	MoveStockToWaste        MoveKind = "stock_to_waste"
	MoveRecycleStock        MoveKind = "recycle_stock"
	MoveWasteToTableau      MoveKind = "waste_to_tableau"
	MoveWasteToFoundation   MoveKind = "waste_to_foundation"
	MoveTableauToTableau    MoveKind = "tableau_to_tableau"
	MoveTableauToFoundation MoveKind = "tableau_to_foundation"
	MoveFoundationToTableau MoveKind = "foundation_to_tableau"
)

// MoveRecord captures a single accepted move with enough payload to invert
// it exactly.
type MoveRecord struct {
	Kind MoveKind `json:"kind"`

	// From and To are pile indexes where the kind involves one; -1 otherwise.
	From int `json:"from"`
	To   int `json:"to"`

	// Cards holds the exact card(s) moved, in moved order. Recycle records
	// the waste contents as they were before the recycle.
	Cards []Card `json:"cards"`

	// Flipped marks that the source column's new top card was turned face-up
	// as a side effect; undo turns it back down.
	Flipped bool `json:"flipped"`

	// PrevScore is the score immediately before the move, restored verbatim
	// on undo.
	PrevScore int `json:"prevScore"`
}
