package records

import "courtside/internal/stats"

// Stats a single game record is kept for
var RecordStats = []string{
	stats.POINTS,
	stats.REBOUNDS,
	stats.ASSISTS,
	stats.STEALS,
	stats.BLOCKS,
	stats.THREES_MADE,
	stats.FG_PERCENT,
	stats.THREEP_PERCENT,
}

// Stats that have career milestone thresholds, in announcement order
var MilestoneStats = []string{
	stats.POINTS,
	stats.REBOUNDS,
	stats.ASSISTS,
	stats.STEALS,
	stats.BLOCKS,
	stats.THREES_MADE,
}

// Stats that count towards double-doubles and triple-doubles
var doubleStats = []string{
	stats.POINTS,
	stats.REBOUNDS,
	stats.ASSISTS,
	stats.STEALS,
	stats.BLOCKS,
}

type Config struct {
	// Minimum attempts before a percentage line can take a record
	MinFgaForFgPercent float64
	Min3paFor3pPercent float64
	// Career milestone thresholds per stat, ascending
	Milestones map[string][]int
	// Page size for the events endpoint
	EventsPerPage int
	// Pages scanned on a routine poll; a backfill scans everything
	LookbackPages int
}

// DefaultConfig carries the thresholds tuned for the league. All of them
// can be overridden through the environment
func DefaultConfig() Config {
	return Config{
		MinFgaForFgPercent: 10,
		Min3paFor3pPercent: 6,
		Milestones: map[string][]int{
			stats.POINTS:      {100, 250, 500, 750, 1000, 1500, 2000},
			stats.ASSISTS:     {50, 100, 250, 500, 750, 1000},
			stats.REBOUNDS:    {50, 100, 250, 500, 750, 1000},
			stats.STEALS:      {25, 50, 100, 200, 300},
			stats.BLOCKS:      {25, 50, 100, 200, 300},
			stats.THREES_MADE: {25, 50, 100, 200, 300},
		},
		EventsPerPage: 100,
		LookbackPages: 2,
	}
}

// eligible reports whether a line may take the record for a stat,
// enforcing the minimum attempts floor on percentage stats
func (cfg *Config) eligible(stat string, line *stats.Line) bool {
	switch stat {
	case stats.FG_PERCENT:
		return line.Fga >= cfg.MinFgaForFgPercent
	case stats.THREEP_PERCENT:
		return line.ThreesAtt >= cfg.Min3paFor3pPercent
	default:
		return true
	}
}
