package config

// Experiment describes a growth experiment comparing attachment strategies
// on a seed network
type Experiment struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Seed        int64        `yaml:"seed"`
	Workers     int          `yaml:"workers"`
	Strategies  []GrowthSpec `yaml:"strategies"`
	Estimation  *Estimation  `yaml:"estimation,omitempty"`
	Evaluation  *Evaluation  `yaml:"evaluation,omitempty"`
	Output      *Output      `yaml:"output,omitempty"`
}

// GrowthSpec names one attachment strategy to run
type GrowthSpec struct {
	Name         string  `yaml:"name"`
	Method       string  `yaml:"method"`
	Alpha        float64 `yaml:"alpha,omitempty"`
	EdgesPerNode int     `yaml:"edges_per_node"`
	Steps        int     `yaml:"steps"`
}

// Output selects what each trajectory point carries
type Output struct {
	IncludeCurves bool `yaml:"include_curves"`
}
