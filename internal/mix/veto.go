package mix

import (
	"os"
	"slices"
	"strings"

	"github.com/mixgg/mix-service/internal/models"
)

// MapPool is the fixed ordered list of maps a veto runs over. The pool never
// changes for the lifetime of a mix.
type MapPool []string

// defaultPool is the seven-map competitive pool used unless MAP_POOL overrides it.
var defaultPool = MapPool{
	"de_mirage",
	"de_inferno",
	"de_nuke",
	"de_overpass",
	"de_vertigo",
	"de_ancient",
	"de_anubis",
}

// DefaultMapPool returns the pool from the MAP_POOL env var (comma separated)
// or the built-in competitive seven.
func DefaultMapPool() MapPool {
	raw := os.Getenv("MAP_POOL")
	if raw == "" {
		return slices.Clone(defaultPool)
	}
	var pool MapPool
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return slices.Clone(defaultPool)
	}
	return pool
}

// Contains reports whether name is in the pool.
func (p MapPool) Contains(name string) bool {
	return slices.Contains(p, name)
}

// Remaining returns the pool maps not yet banned, in pool order.
func (p MapPool) Remaining(banned []string) []string {
	var out []string
	for _, name := range p {
		if !slices.Contains(banned, name) {
			out = append(out, name)
		}
	}
	return out
}

// FinalMap returns the match map once the veto is exhausted: it is only set
// when exactly one pool map is left unbanned.
func (p MapPool) FinalMap(banned []string) (string, bool) {
	rem := p.Remaining(banned)
	if len(rem) != 1 {
		return "", false
	}
	return rem[0], true
}

// TurnFor derives whose turn it is to ban from the count of bans already
// recorded: team A on even counts, team B on odd. The turn is never stored; it
// is always recomputed from the ban list so there is no second source of truth.
func TurnFor(banCount int) models.Team {
	if banCount%2 == 0 {
		return models.TeamA
	}
	return models.TeamB
}
