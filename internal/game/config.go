package game

// TableConfig configures blind structure and seating limits for an
// Orchestrator. SimulationMode marks a table as safe to clone and run
// concurrently: it must be set before Orchestrator.RunSimulations is asked
// to run its parallel, errgroup-fanned-out path (see cloneForSimulation), so
// a live table with stateful external adapters is never cloned behind the
// caller's back.
type TableConfig struct {
	SmallBlind     int
	BigBlind       int
	MinBuyIn       int
	MaxBuyIn       int
	MinPlayers     int
	MaxPlayers     int
	InitialButton  int // seat index; ignored if negative
	SimulationMode bool
}

// Validate checks the configuration is internally consistent, returning a
// ConfigurationError describing the first problem found.
func (c TableConfig) Validate() error {
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return &ConfigurationError{Reason: "blinds must be positive"}
	}
	if c.SmallBlind > c.BigBlind {
		return &ConfigurationError{Reason: "small blind cannot exceed big blind"}
	}
	if c.MinPlayers < 2 {
		return &ConfigurationError{Reason: "min players must be at least 2"}
	}
	if c.MaxPlayers < c.MinPlayers {
		return &ConfigurationError{Reason: "max players cannot be less than min players"}
	}
	if c.MaxPlayers > 23 {
		return &ConfigurationError{Reason: "max players exceeds seating capacity"}
	}
	if c.MaxBuyIn > 0 && c.MinBuyIn > c.MaxBuyIn {
		return &ConfigurationError{Reason: "min buy-in cannot exceed max buy-in"}
	}
	return nil
}
