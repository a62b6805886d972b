package raffle

// State is the raffle lifecycle. OPEN accepts entrants and may start a draw;
// CALCULATING means a randomness request is outstanding and the entrant list
// and pot are frozen until fulfillment.
type State uint8

const (
	StateOpen State = iota
	StateCalculating
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateCalculating:
		return "CALCULATING"
	default:
		return "UNKNOWN"
	}
}
