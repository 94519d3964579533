package game

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// Action is a playing decision
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble
	ActionSplit
	ActionInsurance
	ActionDeclineInsurance
)

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSplit:
		return "split"
	case ActionInsurance:
		return "insurance"
	case ActionDeclineInsurance:
		return "no-insurance"
	default:
		return "unknown"
	}
}

// ParseAction parses the name returned by String, plus the short forms
// h, s, d, p, i and n.
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit", "h":
		return ActionHit, nil
	case "stand", "s":
		return ActionStand, nil
	case "double", "d":
		return ActionDouble, nil
	case "split", "p":
		return ActionSplit, nil
	case "insurance", "insure", "i":
		return ActionInsurance, nil
	case "no-insurance", "decline", "no", "n":
		return ActionDeclineInsurance, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Decision is an agent's chosen action with reasoning
type Decision struct {
	Action    Action
	Reasoning string
}

// TableView is the read-only state an agent decides from
type TableView struct {
	Hand      []deck.Card
	HandIndex int
	Hands     int
	DealerUp  deck.Card
	Balance   rules.Amount
	MainBet   rules.Amount
	Split     bool
}

// Agent plays hands. Agents receive immutable state and return a decision;
// they never mutate the session.
type Agent interface {
	Decide(view TableView, valid []Action) Decision
}

// LegalActions lists the actions currently allowed
func (s *Session) LegalActions() []Action {
	switch s.phase {
	case PhaseInsurance:
		if s.CanInsure() {
			return []Action{ActionInsurance, ActionDeclineInsurance}
		}
		return []Action{ActionDeclineInsurance}
	case PhasePlaying:
		var actions []Action
		if s.CanHit() {
			actions = append(actions, ActionHit)
		}
		actions = append(actions, ActionStand)
		if s.CanDouble() {
			actions = append(actions, ActionDouble)
		}
		if s.CanSplit() {
			actions = append(actions, ActionSplit)
		}
		return actions
	default:
		return nil
	}
}

// View returns the state an agent sees for the current decision
func (s *Session) View() TableView {
	h := s.hands[s.current]
	up, _ := s.DealerUpCard()
	return TableView{
		Hand:      slices.Clone(h.Cards),
		HandIndex: s.current,
		Hands:     len(s.hands),
		DealerUp:  up,
		Balance:   s.balance,
		MainBet:   h.MainBet,
		Split:     s.split,
	}
}

// Apply performs a playing action
func (s *Session) Apply(a Action) error {
	switch a {
	case ActionHit:
		return s.Hit()
	case ActionStand:
		return s.Stand()
	case ActionDouble:
		return s.DoubleDown()
	case ActionSplit:
		return s.Split()
	case ActionInsurance:
		return s.TakeInsurance()
	case ActionDeclineInsurance:
		return s.DeclineInsurance()
	default:
		return s.reject("apply", ErrIllegalAction, "Unknown action")
	}
}
