package config

type YAMLConfig struct {
	Input   string      `yaml:"input"`
	Output  string      `yaml:"output"`
	Workers *int        `yaml:"workers"`
	Filter  YAMLFilter  `yaml:"filter"`
	Lookup  YAMLLookup  `yaml:"lookup"`
	Resolve YAMLResolve `yaml:"resolve"`
}

type YAMLFilter struct {
	Enabled  *bool    `yaml:"enabled"`
	Prefixes []string `yaml:"prefixes"`
}

type YAMLLookup struct {
	Endpoint   string      `yaml:"endpoint"`
	ResultPath string      `yaml:"result_path"`
	Retries    *int        `yaml:"retries"`
	Timeout    string      `yaml:"timeout"`
	Backoff    YAMLBackoff `yaml:"backoff"`
}

type YAMLBackoff struct {
	Initial string `yaml:"initial"`
	Max     string `yaml:"max"`
}

type YAMLResolve struct {
	Enabled    *bool  `yaml:"enabled"`
	Nameserver string `yaml:"nameserver"`
	Timeout    string `yaml:"timeout"`
}
