package convert

import "fmt"

// DefaultReferences is the baseline reference set assumed when no options
// are supplied.
const DefaultReferences = "netstandard2.0"

// StrictMode mirrors the target compiler's implicit-narrowing setting.
type StrictMode string

const (
	StrictOn     StrictMode = "on"
	StrictOff    StrictMode = "off"
	StrictCustom StrictMode = "custom"
)

// Options configures the compilation surface the converter assumes.
type Options struct {
	// References selects the reference-library baseline, e.g. "netstandard2.0".
	References string `json:"references" yaml:"references"`

	// RootNamespace overrides the project root namespace.
	// nil keeps the converter's default; a pointer to "" means no
	// enclosing namespace.
	RootNamespace *string `json:"root_namespace,omitempty" yaml:"root_namespace,omitempty"`

	// OptionExplicit requires explicit declarations.
	OptionExplicit bool `json:"explicit" yaml:"explicit"`

	// OptionCompareText makes textual string comparison case-insensitive.
	OptionCompareText bool `json:"compare_text" yaml:"compare_text"`

	// OptionStrict controls implicit narrowing conversions.
	OptionStrict StrictMode `json:"strict" yaml:"strict"`

	// OptionInfer permits local type inference.
	OptionInfer bool `json:"infer" yaml:"infer"`
}

// DefaultOptions returns the fixed configuration used when a caller
// supplies none.
func DefaultOptions() Options {
	return Options{
		References:        DefaultReferences,
		OptionExplicit:    true,
		OptionCompareText: false,
		OptionStrict:      StrictOff,
		OptionInfer:       true,
	}
}

// EmptyNamespaceStrictOff is DefaultOptions with the root namespace forced
// to empty.
func EmptyNamespaceStrictOff() Options {
	return DefaultOptions().WithRootNamespace("")
}

// WithRootNamespace returns a copy of o with the root namespace override set.
func (o Options) WithRootNamespace(ns string) Options {
	o.RootNamespace = &ns
	return o
}

// Validate reports whether o describes a usable configuration.
func (o Options) Validate() error {
	if o.References == "" {
		return fmt.Errorf("references is required")
	}
	switch o.OptionStrict {
	case StrictOn, StrictOff, StrictCustom:
	default:
		return fmt.Errorf("unknown strict mode %q: must be one of on, off, custom", o.OptionStrict)
	}
	return nil
}
