package football

// Config contains football-specific catalog configuration
type Config struct {
	SportKey    string
	DisplayName string

	// Over/Under goal lines with a declared market (over_under_<line>)
	GoalLines []float64

	// Asian handicap lines on the home side, most negative first
	AsianHandicapLines []string
}

// DefaultConfig returns the standard football configuration
func DefaultConfig() *Config {
	return &Config{
		SportKey:    "football",
		DisplayName: "Football (Soccer)",

		GoalLines: []float64{0.5, 1.5, 2.5, 3.5, 4.5},

		// Home -1.5 ≤ Home -1 ≤ Home -0.5
		AsianHandicapLines: []string{"-1.5", "-1", "-0.5"},
	}
}
