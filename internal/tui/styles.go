package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// Table palette
var (
	felt  = lipgloss.Color("#0B6E4F")
	cream = lipgloss.Color("#F4E9CD")
	gold  = lipgloss.Color("#F2C14E")
	green = lipgloss.Color("#76C893")
	red   = lipgloss.Color("#E4572E")
	amber = lipgloss.Color("#F9A03F")
	slate = lipgloss.Color("#8D99AE")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(cream).Background(felt).Bold(true)

	handStyle       = lipgloss.NewStyle().Foreground(cream)
	activeHandStyle = lipgloss.NewStyle().Foreground(gold).Bold(true).Underline(true)
	balanceStyle    = lipgloss.NewStyle().Foreground(gold).Bold(true)
	promptStyle     = lipgloss.NewStyle().Foreground(gold)
	alertStyle      = lipgloss.NewStyle().Foreground(amber).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(slate)

	winStyle       = lipgloss.NewStyle().Foreground(green).Bold(true)
	blackjackStyle = lipgloss.NewStyle().Foreground(felt).Background(gold).Bold(true)
	lossStyle      = lipgloss.NewStyle().Foreground(red).Bold(true)
	pushStyle      = lipgloss.NewStyle().Foreground(amber)

	redSuitStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	blackSuitStyle = lipgloss.NewStyle().Foreground(cream).Bold(true)
)

func outcomeStyle(o rules.Outcome) lipgloss.Style {
	switch {
	case o == rules.OutcomeBlackjack:
		return blackjackStyle
	case o.IsWin():
		return winStyle
	case o.IsLoss():
		return lossStyle
	default:
		return pushStyle
	}
}

// netStyle colours a round's net result
func netStyle(net rules.Amount) lipgloss.Style {
	switch {
	case net > 0:
		return winStyle
	case net < 0:
		return lossStyle
	}
	return mutedStyle
}

// actionStyle groups actions by how much they add to the stake
func actionStyle(a game.Action) lipgloss.Style {
	switch a {
	case game.ActionHit, game.ActionInsurance:
		return winStyle
	case game.ActionDouble, game.ActionSplit:
		return alertStyle
	}
	return lossStyle
}

func cardStyle(c deck.Card) lipgloss.Style {
	if c.IsRed() {
		return redSuitStyle
	}
	return blackSuitStyle
}
