package kmeans1d

import "math"

// Config controls a clustering run.
type Config struct {
	MaxIter int     // Iteration budget (must be > 0)
	Eps     float64 // Relative SSE change below which the loop stops (must be > 0)
	Workers int     // Goroutines per data-parallel phase (must be > 0)
}

// DefaultConfig returns the defaults used by the command line tool.
func DefaultConfig() Config {
	return Config{
		MaxIter: 50,
		Eps:     1e-4,
		Workers: 4,
	}
}

// Validate rejects non-positive values before any clustering work starts.
func (c Config) Validate() error {
	if c.MaxIter <= 0 {
		return &ConfigError{Field: "max_iter", Value: c.MaxIter}
	}
	if c.Eps <= 0 || math.IsNaN(c.Eps) {
		return &ConfigError{Field: "eps", Value: c.Eps}
	}
	if c.Workers <= 0 {
		return &ConfigError{Field: "workers", Value: c.Workers}
	}
	return nil
}
