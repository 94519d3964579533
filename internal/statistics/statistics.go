package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// SideBetResult is one side wager in a round, in dollars
type SideBetResult struct {
	Kind   rules.BetKind
	Stake  float64
	Payout float64
}

// RoundResult represents the outcome of a single round in dollars
type RoundResult struct {
	Wagered      float64 // everything staked, insurance included
	MainNet      float64
	SideNet      float64
	InsuranceNet float64
	Outcomes     []rules.Outcome // one per player hand
	SideBets     []SideBetResult
	Doubled      bool
	Split        bool
	Insured      bool
}

// Net returns the total profit or loss for the round
func (r RoundResult) Net() float64 {
	return r.MainNet + r.SideNet + r.InsuranceNet
}

// FromGame converts a settled round
func FromGame(r game.RoundResult) RoundResult {
	out := RoundResult{
		Wagered: r.TotalBet.Float(),
		Split:   r.Split,
	}
	for _, h := range r.Hands {
		out.MainNet += (h.Payout - h.Bet).Float()
		out.Outcomes = append(out.Outcomes, h.Outcome)
		out.Doubled = out.Doubled || h.Doubled
	}
	for _, sb := range r.SideBets {
		out.SideNet += (sb.Payout - sb.Bet).Float()
		out.SideBets = append(out.SideBets, SideBetResult{Kind: sb.Kind, Stake: sb.Bet.Float(), Payout: sb.Payout.Float()})
	}
	if r.Insurance != nil {
		out.Insured = true
		out.InsuranceNet = (r.Insurance.Payout - r.Insurance.Bet).Float()
	}
	return out
}

// SideBetStats tracks one side wager across rounds
type SideBetStats struct {
	Bets     int
	Hits     int
	Wagered  float64
	Returned float64
}

// HitRate returns the fraction of bets that paid
func (s SideBetStats) HitRate() float64 {
	if s.Bets == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Bets)
}

// HouseEdge returns the fraction of the stake the house keeps
func (s SideBetStats) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return (s.Wagered - s.Returned) / s.Wagered
}

// Statistics tracks blackjack session results
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wagered float64

	// Net split by wager type; these must add up to SumNet
	MainNet      float64
	SideNet      float64
	InsuranceNet float64

	Hands    int
	Outcomes map[rules.Outcome]int
	SideBets map[rules.BetKind]*SideBetStats
	Doubles  int
	Splits   int
	Insured  int

	BiggestWin  float64
	BiggestLoss float64
}

// Mean returns the arithmetic mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge returns the fraction of all money wagered that was lost
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -s.SumNet / s.Wagered
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[rules.Outcome]int)
	}
	if s.SideBets == nil {
		s.SideBets = make(map[rules.BetKind]*SideBetStats)
	}

	net := result.Net()
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Wagered

	s.MainNet += result.MainNet
	s.SideNet += result.SideNet
	s.InsuranceNet += result.InsuranceNet

	s.Hands += len(result.Outcomes)
	for _, o := range result.Outcomes {
		s.Outcomes[o]++
	}
	for _, sb := range result.SideBets {
		st, ok := s.SideBets[sb.Kind]
		if !ok {
			st = &SideBetStats{}
			s.SideBets[sb.Kind] = st
		}
		st.Bets++
		st.Wagered += sb.Stake
		st.Returned += sb.Payout
		if sb.Payout > 0 {
			st.Hits++
		}
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Split {
		s.Splits++
	}
	if result.Insured {
		s.Insured++
	}

	if net > s.BiggestWin {
		s.BiggestWin = net
	}
	if net < s.BiggestLoss {
		s.BiggestLoss = net
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[rules.Outcome]int)
	}
	if s.SideBets == nil {
		s.SideBets = make(map[rules.BetKind]*SideBetStats)
	}
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.MainNet += other.MainNet
	s.SideNet += other.SideNet
	s.InsuranceNet += other.InsuranceNet
	s.Hands += other.Hands
	for o, n := range other.Outcomes {
		s.Outcomes[o] += n
	}
	for kind, st := range other.SideBets {
		mine, ok := s.SideBets[kind]
		if !ok {
			mine = &SideBetStats{}
			s.SideBets[kind] = mine
		}
		mine.Bets += st.Bets
		mine.Hits += st.Hits
		mine.Wagered += st.Wagered
		mine.Returned += st.Returned
	}
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.Insured += other.Insured
	s.BiggestWin = math.Max(s.BiggestWin, other.BiggestWin)
	s.BiggestLoss = math.Min(s.BiggestLoss, other.BiggestLoss)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// OutcomeRate returns the fraction of hands that ended with o
func (s *Statistics) OutcomeRate(o rules.Outcome) float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Outcomes[o]) / float64(s.Hands)
}

// IsLedgerBalanced checks the per-wager nets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.SumNet-s.MainNet-s.SideNet-s.InsuranceNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: net=%.6f, main=%.6f, side=%.6f, insurance=%.6f",
			s.SumNet, s.MainNet, s.SideNet, s.InsuranceNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	counted := 0
	for _, n := range s.Outcomes {
		counted += n
	}
	if counted != s.Hands {
		return fmt.Errorf("outcome total (%d) does not match hands count (%d)", counted, s.Hands)
	}

	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}

	for kind, st := range s.SideBets {
		if st.Hits > st.Bets {
			return fmt.Errorf("%s hits (%d) exceed bets (%d)", kind, st.Hits, st.Bets)
		}
	}

	return nil
}
