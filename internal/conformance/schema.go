package conformance

// Suite is one YAML file.
type Suite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Passes      PassesConfig `yaml:"passes,omitempty"`
	Tests       []Case       `yaml:"tests"`
}

// PassesConfig mirrors the [passes] table of letc.toml.
type PassesConfig struct {
	Let          string `yaml:"let,omitempty"`           // sequential|parallel
	BindingOrder string `yaml:"binding_order,omitempty"` // program|hoisted-first
}

// Case compiles Source up to Stage and checks the outcome.
type Case struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Skip        any     `yaml:"skip,omitempty"` // bool or reason
	Source      string  `yaml:"source"`
	Stage       string  `yaml:"stage,omitempty"`  // parse|resolve|flatten, default flatten
	Expect      string  `yaml:"expect,omitempty"` // canonical S-expression of the output
	Input       []int64 `yaml:"input,omitempty"`
	Value       *int64  `yaml:"value,omitempty"` // result of evaluating the output on Input
	Error       string  `yaml:"error,omitempty"` // diagnostic code (SYN2302) or runtime error name
}

// IsSkipped reports whether the case is disabled and why.
func (c *Case) IsSkipped() (bool, string) {
	switch v := c.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
	case string:
		return true, v
	}
	return false, ""
}
