package pricing

// Settings are the numeric knobs of a pricing call.
type Settings struct {
	// MCPaths is the number of Monte Carlo paths.
	MCPaths int `json:"mc_paths" yaml:"mc_paths" mapstructure:"mc_paths"`
	// Seed of the PCG32 generator.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`
	// Stream selects an independent PCG32 stream for the same seed.
	Stream uint64 `json:"stream" yaml:"stream" mapstructure:"stream"`
	// Antithetic pairs every draw z with -z.
	Antithetic bool `json:"antithetic" yaml:"antithetic" mapstructure:"antithetic"`
	// TargetStdError stops a Monte Carlo run early once the price standard
	// error falls to or below it. Zero disables early stopping.
	TargetStdError float64 `json:"target_std_error" yaml:"target_std_error" mapstructure:"target_std_error"`

	TreeSteps     int `json:"tree_steps" yaml:"tree_steps" mapstructure:"tree_steps"`
	PDESpaceSteps int `json:"pde_space_steps" yaml:"pde_space_steps" mapstructure:"pde_space_steps"`
	PDETimeSteps  int `json:"pde_time_steps" yaml:"pde_time_steps" mapstructure:"pde_time_steps"`
}

const (
	DefaultMCPaths       = 200000
	DefaultSeed          = 1
	DefaultTreeSteps     = 100
	DefaultPDESpaceSteps = 100
	DefaultPDETimeSteps  = 100
)

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		MCPaths:       DefaultMCPaths,
		Seed:          DefaultSeed,
		TreeSteps:     DefaultTreeSteps,
		PDESpaceSteps: DefaultPDESpaceSteps,
		PDETimeSteps:  DefaultPDETimeSteps,
	}
}

// WithDefaults fills zero-valued counts, seed and target error from base.
// Antithetic and Stream are kept as given since their zero values are valid
// choices.
func (s Settings) WithDefaults(base Settings) Settings {
	if s.TargetStdError == 0 {
		s.TargetStdError = base.TargetStdError
	}
	if s.MCPaths == 0 {
		s.MCPaths = base.MCPaths
	}
	if s.Seed == 0 {
		s.Seed = base.Seed
	}
	if s.TreeSteps == 0 {
		s.TreeSteps = base.TreeSteps
	}
	if s.PDESpaceSteps == 0 {
		s.PDESpaceSteps = base.PDESpaceSteps
	}
	if s.PDETimeSteps == 0 {
		s.PDETimeSteps = base.PDETimeSteps
	}
	return s
}
