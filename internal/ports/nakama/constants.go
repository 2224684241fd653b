package nakama

// RpcQuickMatch is the Nakama RPC id clients call to find or create a
// lobby-capable room.
const RpcQuickMatch = "quick_match"

// MatchNameKlondike is the authoritative match handler name registered with
// Nakama.
const MatchNameKlondike = "klondike_match"

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpMove           int64 = 2
	OpRequestNewGame int64 = 3

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpGameStarted  int64 = 103
	OpStateUpdate  int64 = 104
	OpTurnSkipped  int64 = 105
	OpGameEnded    int64 = 106
	OpGameError    int64 = 107
)
