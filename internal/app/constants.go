package app

// Score deltas applied by the engine for each accepted move kind. Keep these
// centralized so tests and balancing changes touch a single place.
const (
	ScoreDraw                = 0
	ScoreRecycleStock        = -20
	ScoreWasteToTableau      = 5
	ScoreWasteToFoundation   = 10
	ScoreTableauToTableau    = 0
	ScoreTableauToFoundation = 10
	ScoreFoundationToTableau = -15
)
