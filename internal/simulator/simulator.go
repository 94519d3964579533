package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/autoplay"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Rounds   int // per session
	Seed     int64
	Balance  rules.Amount // starting balance of each session
	Bets     []game.BetPlacement
	Strategy string
	Table    game.TableRules
	Timeout  time.Duration // per session; 0 disables
	Workers  int           // 0 uses GOMAXPROCS
	Logger   *log.Logger
}

// Simulator runs many independent sessions and pools their results
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Table == (game.TableRules{}) {
		config.Table = game.DefaultTableRules()
	}
	return &Simulator{config: config}
}

// Run plays every session and returns the merged statistics. Sessions are
// seeded from Seed so a run is reproducible regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Sessions <= 0 || s.config.Rounds <= 0 {
		return nil, fmt.Errorf("sessions and rounds must be positive")
	}
	if _, err := strategy.New(s.config.Strategy, nil, nil); err != nil {
		return nil, err
	}

	results := make([]*statistics.Statistics, s.config.Sessions)
	var mu sync.Mutex
	completed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Sessions {
		g.Go(func() error {
			stats, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			results[i] = stats

			mu.Lock()
			completed++
			done := completed
			mu.Unlock()
			s.config.Logger.Debug("Session finished", "session", i, "rounds", stats.Rounds, "completed", done)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, r := range results {
		total.Merge(r)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nil
}

func (s *Simulator) playSession(ctx context.Context, index int) (*statistics.Statistics, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	seed := s.config.Seed + int64(index)
	session, err := game.NewSession(s.config.Balance,
		game.WithRNG(randutil.New(seed)),
		game.WithTable(s.config.Table))
	if err != nil {
		return nil, err
	}
	agent, err := strategy.New(s.config.Strategy, randutil.New(^seed), s.config.Logger)
	if err != nil {
		return nil, err
	}

	summary, err := autoplay.Run(ctx, session, autoplay.Plan{
		Bets:   s.config.Bets,
		Rounds: s.config.Rounds,
	}, agent)
	if err != nil {
		return nil, err
	}
	if summary.Reason != autoplay.StopRounds {
		s.config.Logger.Warn("Session ended early", "session", index, "rounds", summary.Rounds, "reason", summary.Reason)
	}
	return summary.Stats, nil
}

// PrintSummary writes a report of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, strategyName string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS (%s strategy) ===\n", strategyName)
	fmt.Fprintf(w, "Rounds played: %d (%d hands)\n", stats.Rounds, stats.Hands)
	fmt.Fprintf(w, "Total wagered: $%.2f\n", stats.Wagered)
	fmt.Fprintf(w, "Net result: $%.2f\n", stats.SumNet)
	fmt.Fprintf(w, "House edge: %.3f%%\n", stats.HouseEdge()*100)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: $%.4f/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: $%.4f/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: $%.4f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [$%.4f, $%.4f]/round\n", low, high)
	fmt.Fprintf(w, "Biggest win: $%.2f, biggest loss: $%.2f\n", stats.BiggestWin, stats.BiggestLoss)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, o := range []rules.Outcome{rules.OutcomeBlackjack, rules.OutcomeWin, rules.OutcomePush, rules.OutcomeLoss, rules.OutcomeBust} {
		fmt.Fprintf(w, "%-10s %6d (%.1f%%)\n", o, stats.Outcomes[o], stats.OutcomeRate(o)*100)
	}
	fmt.Fprintf(w, "Doubles: %d, splits: %d, insured: %d\n", stats.Doubles, stats.Splits, stats.Insured)

	if len(stats.SideBets) > 0 {
		fmt.Fprintf(w, "\n=== SIDE BETS ===\n")
		for _, kind := range rules.SideBets {
			st, ok := stats.SideBets[kind]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%-14s %d bets, %.2f%% hit, house edge %.2f%%\n",
				kind, st.Bets, st.HitRate()*100, st.HouseEdge()*100)
		}
	}
}
