// Package backtest replays z-score sequences through the mean-reversion
// position rule and accumulates a PnL series.
package backtest

import (
	"fmt"
	"math"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// MinObservations is the fewest defined z-scores a simulation will accept.
// Shorter sequences return zero PnL and an empty curve, not an error.
const MinObservations = 5

// Position is the simulator's market state for the spread.
type Position int

// Position states
const (
	Short Position = -1
	Flat  Position = 0
	Long  Position = 1
)

func (p Position) String() string {
	switch p {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "flat"
	}
}

// Config holds the simulator thresholds.
type Config struct {
	EntryZ float64
	ExitZ  float64
}

// Validate enforces entry > exit >= 0.
func (c Config) Validate() error {
	if c.ExitZ < 0 {
		return fmt.Errorf("exit threshold must be non-negative: got %f", c.ExitZ)
	}
	if c.EntryZ <= c.ExitZ {
		return fmt.Errorf("entry threshold %f must exceed exit threshold %f", c.EntryZ, c.ExitZ)
	}
	return nil
}

// Result holds the outcome of one simulation run.
type Result struct {
	TotalPnL    float64     `json:"total_pnl"`
	EquityCurve EquityCurve `json:"equity_curve"`
	Entries     int         `json:"entries"`
}

// Simulate replays the z-score sequence through the position state machine.
// Undefined values are dropped from the sequence, not interpolated. The
// state is local to this call and discarded at the end of the run.
//
// Both entry and exit are gated on the previous step's z-score, with exit
// checked after entry and taking precedence; PnL accrues on the current
// step's delta. The strategy profits from mean reversion of the z-score
// itself, not the raw spread in price units.
func Simulate(zscore timeseries.Series, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	clean := zscore.DropUndefined()
	if len(clean) < MinObservations {
		return Result{EquityCurve: EquityCurve{}}, nil
	}

	position := Flat
	pnl := 0.0
	entries := 0
	curve := make(EquityCurve, 0, len(clean)-1)

	for i := 1; i < len(clean); i++ {
		prev := clean[i-1].Value
		next := transition(position, prev, cfg)
		if position == Flat && next != Flat {
			entries++
		}
		position = next

		pnl += float64(position) * (clean[i].Value - prev)
		curve = append(curve, EquityPoint{Time: clean[i].Time, PnL: pnl})
	}

	return Result{TotalPnL: pnl, EquityCurve: curve, Entries: entries}, nil
}

// transition applies the entry then exit rules to the previous z-score.
// Exit overrides an entry decided in the same step.
func transition(current Position, prevZ float64, cfg Config) Position {
	next := current
	if prevZ > cfg.EntryZ {
		next = Short
	} else if prevZ < -cfg.EntryZ {
		next = Long
	}
	if math.Abs(prevZ) < cfg.ExitZ {
		next = Flat
	}
	return next
}
