package config

// Config represents library-wide defaults for estimation and evaluation
type Config struct {
	LogLevel   string      `yaml:"log_level"`
	Seed       int64       `yaml:"seed"`
	Workers    int         `yaml:"workers"`
	Estimation *Estimation `yaml:"estimation,omitempty"`
	Evaluation *Evaluation `yaml:"evaluation,omitempty"`
}

// Estimation configures the Monte Carlo entropy estimator. Zero values
// select the package defaults at runtime.
type Estimation struct {
	Trials   int    `yaml:"trials"`
	Removal  string `yaml:"removal"`
	WantStdv bool   `yaml:"want_stdv"`
}

// Evaluation configures resilience curve sweeps. Zero values select the
// package defaults at runtime.
type Evaluation struct {
	Rate    int `yaml:"rate"`
	Repeats int `yaml:"repeats"`
}
