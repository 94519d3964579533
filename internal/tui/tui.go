// Package tui is the terminal table for a blackjack session. The model owns
// the session and runs every command synchronously inside Update.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// Model is the Bubble Tea model for a blackjack table
type Model struct {
	ctx     context.Context
	session *game.Session
	chips   []rules.Amount
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	focusedPane int // 0 = log, 1 = input
	quitting    bool

	width       int
	height      int
	initialized bool
}

// New creates a model driving session. chips are shown as a reminder of the
// usual denominations.
func New(ctx context.Context, session *game.Session, chips []rules.Amount, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = promptStyle.Bold(true)
	ti.TextStyle = handStyle
	ti.Prompt = "> "

	m := &Model{
		ctx:         ctx,
		session:     session,
		chips:       chips,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
	}
	session.Subscribe(m)
	m.AddLogEntry(titleStyle.Render(" Blackjack ") + "  type help for commands")
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close detaches the model from its session
func (m *Model) Close() {
	m.session.Unsubscribe(m)
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if !m.Execute(input) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// OnEvent logs round starts and settlements
func (m *Model) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartedEvent:
		m.AddLogEntry(mutedStyle.Render(fmt.Sprintf("Round %s: %s wagered", e.RoundID, e.TotalBet)))
		m.logDeal()
	case game.RoundSettledEvent:
		m.logSettlement(e.Result)
	}
}

func (m *Model) logDeal() {
	for i, h := range m.session.PlayerHands() {
		m.AddLogEntry(fmt.Sprintf("You%s: %s (%s)", handLabel(i, m.session.IsSplit()), formatCards(h.Cards), h.Value()))
	}
	if up, ok := m.session.DealerUpCard(); ok {
		m.AddLogEntry(fmt.Sprintf("Dealer shows %s", formatCards([]deck.Card{up})))
	}
	for _, o := range m.session.SideBetPreview() {
		if o.Won() {
			m.AddLogEntry(winStyle.Render(fmt.Sprintf("%s: %s pays %s", o.Kind, o.Hand, o.Ratio())))
		}
	}
}

func (m *Model) logSettlement(r game.RoundResult) {
	m.AddLogEntry(fmt.Sprintf("Dealer: %s (%s)", formatCards(r.DealerCards), r.DealerValue))
	for i, h := range r.Hands {
		line := fmt.Sprintf("Hand%s %s (%s): %s", handLabel(i, r.Split), formatCards(h.Cards), h.Value, h.Outcome)
		if h.Payout > 0 {
			line += fmt.Sprintf(" pays %s (%s)", h.Payout, h.Ratio)
		}
		m.AddLogEntry(outcomeStyle(h.Outcome).Render(line))
	}
	for _, sb := range r.SideBets {
		if sb.Payout > 0 {
			m.AddLogEntry(winStyle.Render(fmt.Sprintf("%s %s: %s pays %s (%s)", sb.Kind, sb.Bet, sb.Hand, sb.Payout, sb.Ratio)))
		} else {
			m.AddLogEntry(mutedStyle.Render(fmt.Sprintf("%s %s: %s", sb.Kind, sb.Bet, sb.Hand)))
		}
	}
	if r.Insurance != nil {
		m.AddLogEntry(fmt.Sprintf("Insurance %s pays %s", r.Insurance.Bet, r.Insurance.Payout))
	}

	net := r.Net()
	m.AddLogEntry(netStyle(net).Render(fmt.Sprintf("Net %s, balance %s. Enter for next round, redo to repeat bets", signed(net), r.Balance)))
}

func handLabel(i int, split bool) string {
	if !split {
		return ""
	}
	return fmt.Sprintf(" %d", i+1)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(felt).
		Width(max(m.width-2, 1))
	if m.focusedPane == 1 {
		paneStyle = paneStyle.BorderForeground(gold)
	}
	actionPane := paneStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 26)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(felt).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(felt).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(gold)
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows balance, wagers and table state
func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	s := m.session

	b.WriteString(balanceStyle.Render(fmt.Sprintf("Balance: %s", s.Balance())))
	b.WriteString("\n")
	fmt.Fprintf(&b, "On table: %s\n", s.TotalBet())
	fmt.Fprintf(&b, "Streak:   %s\n", s.Streak())
	fmt.Fprintf(&b, "Shoe:     %d cards\n\n", s.ShoeRemaining())

	fmt.Fprintf(&b, "Chip: %s on %s\n", s.BetAmount(), s.BetMode())
	if len(m.chips) > 0 {
		chips := make([]string, len(m.chips))
		for i, c := range m.chips {
			chips[i] = c.String()
		}
		b.WriteString(mutedStyle.Render(strings.Join(chips, " ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	hands := s.PlayerHands()
	if len(hands) > 0 {
		h := hands[0]
		fmt.Fprintf(&b, "Main:          %s\n", h.MainBet)
		for _, kind := range rules.SideBets {
			fmt.Fprintf(&b, "%-14s %s\n", kind.String()+":", h.SideBets.Get(kind))
		}
	}
	if s.InsuranceBet() > 0 {
		fmt.Fprintf(&b, "Insurance:     %s\n", s.InsuranceBet())
	}

	if last, ok := s.LastResult(); ok {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Last round: %s", signed(last.Net()))))
	}
	return b.String()
}

// renderActionPane shows the cards, the legal commands and the input
func (m *Model) renderActionPane() string {
	var b strings.Builder
	s := m.session

	switch s.Phase() {
	case game.PhaseBetting:
		b.WriteString(handStyle.Render(fmt.Sprintf("Place your bets (%s total)", s.TotalBet())))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Commands: " + strings.Join(m.bettingCommands(), " ")))
		b.WriteString("\n")
		m.actionInput.Placeholder = "bet 10, bet pp 5, deal"
	default:
		dealer := s.DealerHand()
		b.WriteString(handStyle.Render(fmt.Sprintf("Dealer: %s", formatCards(dealer))))
		if s.Phase() == game.PhaseGameOver {
			b.WriteString(handStyle.Render(fmt.Sprintf(" (%s)", rules.Value(dealer))))
		}
		b.WriteString("\n")
		for i, h := range s.PlayerHands() {
			line := fmt.Sprintf("You%s: %s (%s) %s", handLabel(i, s.IsSplit()), formatCards(h.Cards), h.Value(), h.MainBet)
			if h.Doubled {
				line += " doubled"
			}
			if s.Phase() == game.PhasePlaying && i == s.CurrentHandIndex() {
				b.WriteString(activeHandStyle.Render(line + " <"))
			} else {
				b.WriteString(handStyle.Render(line))
			}
			b.WriteString("\n")
		}
		if s.Phase() == game.PhaseGameOver {
			b.WriteString(promptStyle.Render("Commands: [next] [redo] [history]"))
			m.actionInput.Placeholder = "Enter for next round"
		} else {
			b.WriteString(m.renderAvailableActions())
			m.actionInput.Placeholder = "hit, stand, double, split"
		}
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	if m.focusedPane == 0 {
		b.WriteString(mutedStyle.Render("Log focused: ↑↓ scroll, Home/End, Tab to input"))
	} else {
		b.WriteString(mutedStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return b.String()
}

func (m *Model) bettingCommands() []string {
	s := m.session
	cmds := []string{"[bet]"}
	if s.CanUndo() {
		cmds = append(cmds, "[undo]", "[clear]")
	}
	if s.CanRedo() {
		cmds = append(cmds, "[redo]")
	}
	if s.CanDeal() {
		cmds = append(cmds, winStyle.Render("[deal]"))
	}
	return cmds
}

// renderAvailableActions renders the session's legal actions
func (m *Model) renderAvailableActions() string {
	var actions []string
	for _, a := range m.session.LegalActions() {
		actions = append(actions, actionStyle(a).Render("["+a.String()+"]"))
	}
	if len(actions) == 0 {
		actions = append(actions, mutedStyle.Render("[dealer playing]"))
	}
	return promptStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "[]"
	}
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = cardStyle(card).Render(card.String())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry appends a line to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log lines
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}
