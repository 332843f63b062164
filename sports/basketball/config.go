package basketball

// Config contains basketball-specific catalog configuration
type Config struct {
	SportKey    string
	DisplayName string

	// Home spread lines beyond ±0.5, e.g. 1.5 declares spread_-1.5 and spread_+1.5
	SpreadLines []float64

	// Game total ladder (overtime included), low to high
	TotalMin  float64
	TotalMax  float64
	TotalStep float64
}

// DefaultConfig returns the standard basketball configuration
func DefaultConfig() *Config {
	return &Config{
		SportKey:    "basketball",
		DisplayName: "Basketball",

		SpreadLines: []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5},

		TotalMin:  195.5,
		TotalMax:  245.5,
		TotalStep: 1.0,
	}
}

// TotalLines expands the total ladder
func (c *Config) TotalLines() []float64 {
	if c.TotalStep <= 0 || c.TotalMax < c.TotalMin {
		return nil
	}

	var lines []float64
	for line := c.TotalMin; line <= c.TotalMax+1e-9; line += c.TotalStep {
		lines = append(lines, line)
	}
	return lines
}
