package mix

import (
	"math"
	"sort"

	"github.com/mixgg/mix-service/internal/models"
)

const (
	// TeamSize is the number of players per side.
	TeamSize = 5
	// RosterCapacity is the number of players a mix holds when full.
	RosterCapacity = 2 * TeamSize
)

// draftOrder assigns power-sorted positions 0..9 to sides. The strongest and
// weakest pair land on the same side first, then pairs alternate, which keeps
// the aggregate power gap between the two fives small.
var draftOrder = [RosterCapacity]models.Team{
	models.TeamA, models.TeamB, models.TeamB, models.TeamA, models.TeamA,
	models.TeamB, models.TeamB, models.TeamA, models.TeamA, models.TeamB,
}

// Power is the composite score used for balancing: GC level weighs 100,
// Faceit level 50, plus the internal elo as-is.
func Power(p models.Player) int {
	return p.GCLevel*100 + p.FaceitLevel*50 + p.InternalElo
}

// AverageLevel returns the mean power of players, or 0 for an empty slice.
func AverageLevel(players []models.Player) float64 {
	if len(players) == 0 {
		return 0
	}
	sum := 0
	for _, p := range players {
		sum += Power(p)
	}
	return float64(sum) / float64(len(players))
}

// BalanceResult holds the two fives and the absolute difference between their
// average power scores, reported for diagnostics only.
type BalanceResult struct {
	TeamA []models.Player
	TeamB []models.Player
	Diff  float64
}

// Balance splits exactly 10 players into two fives by power score. The sort is
// stable, so equal-power players keep their input order and the whole function
// is deterministic for a given input slice. The input is not modified.
func Balance(players []models.Player) (BalanceResult, error) {
	if len(players) != RosterCapacity {
		return BalanceResult{}, ErrInsufficientPlayers
	}

	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Power(sorted[i]) > Power(sorted[j])
	})

	res := BalanceResult{
		TeamA: make([]models.Player, 0, TeamSize),
		TeamB: make([]models.Player, 0, TeamSize),
	}
	for i, p := range sorted {
		if draftOrder[i] == models.TeamA {
			res.TeamA = append(res.TeamA, p)
		} else {
			res.TeamB = append(res.TeamB, p)
		}
	}
	res.Diff = math.Abs(AverageLevel(res.TeamA) - AverageLevel(res.TeamB))
	return res, nil
}
