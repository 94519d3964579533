package game

// Phase is the state of the current round
type Phase int

const (
	PhaseBetting Phase = iota
	PhasePlaying
	PhaseInsurance
	PhaseSettling
	PhaseGameOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhasePlaying:
		return "playing"
	case PhaseInsurance:
		return "insurance"
	case PhaseSettling:
		return "settling"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}
