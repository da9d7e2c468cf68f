// Package suite loads conversion test suites from YAML or CUE files.
//
// A suite names one conversion direction and lists its cases:
//
//	name: arrays
//	direction: cs2vb
//	root_namespace: ""
//	options:
//	  strict: off
//	cases:
//	  - name: array_literal
//	    source: "int[] a = { 1, 2 };"
//	    expected_file: fixtures/array_literal.vb
//	    surrounding_block: true
//
// Fixture paths are relative to the suite file.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/convcheck/internal/convert"
	"github.com/roach88/convcheck/internal/fixture"
	"github.com/roach88/convcheck/internal/harness"
	"github.com/roach88/convcheck/internal/textdiff"
)

// Suite is a parsed suite file.
type Suite struct {
	Name          string       `yaml:"name" json:"name"`
	Description   string       `yaml:"description,omitempty" json:"description,omitempty"`
	Direction     string       `yaml:"direction" json:"direction"`
	RootNamespace *string      `yaml:"root_namespace,omitempty" json:"root_namespace,omitempty"`
	Options       *OptionsSpec `yaml:"options,omitempty" json:"options,omitempty"`
	Cases         []CaseSpec   `yaml:"cases" json:"cases"`

	// Path is the file the suite was loaded from.
	Path string `yaml:"-" json:"-"`
}

// CaseSpec is one case as written in a suite file.
type CaseSpec struct {
	Name             string       `yaml:"name" json:"name"`
	Source           *string      `yaml:"source,omitempty" json:"source,omitempty"`
	SourceFile       string       `yaml:"source_file,omitempty" json:"source_file,omitempty"`
	Expected         *string      `yaml:"expected,omitempty" json:"expected,omitempty"`
	ExpectedFile     string       `yaml:"expected_file,omitempty" json:"expected_file,omitempty"`
	SurroundingBlock bool         `yaml:"surrounding_block,omitempty" json:"surrounding_block,omitempty"`
	SkipOrderCheck   bool         `yaml:"skip_order_check,omitempty" json:"skip_order_check,omitempty"`
	Options          *OptionsSpec `yaml:"options,omitempty" json:"options,omitempty"`
}

// OptionsSpec is a partial convert.Options; unset fields inherit.
type OptionsSpec struct {
	References    *string `yaml:"references,omitempty" json:"references,omitempty"`
	RootNamespace *string `yaml:"root_namespace,omitempty" json:"root_namespace,omitempty"`
	Explicit      *bool   `yaml:"explicit,omitempty" json:"explicit,omitempty"`
	CompareText   *bool   `yaml:"compare_text,omitempty" json:"compare_text,omitempty"`
	Strict        *string `yaml:"strict,omitempty" json:"strict,omitempty"`
	Infer         *bool   `yaml:"infer,omitempty" json:"infer,omitempty"`
}

// apply overlays the set fields of s onto o.
func (s *OptionsSpec) apply(o *convert.Options) {
	if s == nil {
		return
	}
	if s.References != nil {
		o.References = *s.References
	}
	if s.RootNamespace != nil {
		ns := *s.RootNamespace
		o.RootNamespace = &ns
	}
	if s.Explicit != nil {
		o.OptionExplicit = *s.Explicit
	}
	if s.CompareText != nil {
		o.OptionCompareText = *s.CompareText
	}
	if s.Strict != nil {
		o.OptionStrict = convert.StrictMode(*s.Strict)
	}
	if s.Infer != nil {
		o.OptionInfer = *s.Infer
	}
}

// LoadError is returned when a suite file cannot be read or is invalid.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a suite file, choosing the format by extension
// (.yaml/.yml or .cue), and validates it.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read suite file: %w", err)}
	}

	var s *Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = parseYAML(data)
	case ".cue":
		s, err = parseCUE(path, data)
	default:
		err = fmt.Errorf("unsupported suite file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s.Path = path
	if err := validateSuite(s); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("invalid suite: %w", err)}
	}
	return s, nil
}

// validateSuite checks required fields and case consistency.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := harness.ParseDirection(s.Direction); err != nil {
		return err
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if err := validateOptions("options", s.Options); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if (c.Source == nil) == (c.SourceFile == "") {
			return fmt.Errorf("cases[%d] %s: exactly one of source or source_file is required", i, c.Name)
		}
		if (c.Expected == nil) == (c.ExpectedFile == "") {
			return fmt.Errorf("cases[%d] %s: exactly one of expected or expected_file is required", i, c.Name)
		}
		if err := validateOptions(fmt.Sprintf("cases[%d].options", i), c.Options); err != nil {
			return err
		}
	}
	return nil
}

func validateOptions(field string, s *OptionsSpec) error {
	if s == nil {
		return nil
	}
	o := convert.DefaultOptions()
	s.apply(&o)
	if err := o.Validate(); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// Resolve reads fixture files and converts the suite to harness cases.
//
// Cases with expected_file recharacterize into that file. Cases with inline
// expected text recharacterize by replacing the text inside the suite file.
func (s *Suite) Resolve() ([]harness.Case, error) {
	direction, err := harness.ParseDirection(s.Direction)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(s.Path)

	cases := make([]harness.Case, 0, len(s.Cases))
	for _, spec := range s.Cases {
		tc := harness.Case{
			Name:                   s.Name + "/" + spec.Name,
			Direction:              direction,
			Options:                s.options(spec),
			ExpectSurroundingBlock: spec.SurroundingBlock,
			SkipOrderCheck:         spec.SkipOrderCheck,
		}

		if spec.Source != nil {
			tc.Source = *spec.Source
		} else {
			src, err := fixture.Load(resolvePath(base, spec.SourceFile))
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", spec.Name, err)
			}
			tc.Source = src
		}

		var rewriter textdiff.Rewriter
		if spec.Expected != nil {
			tc.Expected = *spec.Expected
			rewriter = fixture.Replace{Path: s.Path}
		} else {
			path := resolvePath(base, spec.ExpectedFile)
			expected, err := fixture.Load(path)
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", spec.Name, err)
			}
			tc.Expected = expected
			rewriter = fixture.File{Path: path}
		}
		tc.Rewriter = rewriter

		cases = append(cases, tc)
	}
	return cases, nil
}

// options merges suite and case options. It returns nil when neither level
// sets anything, leaving the checker's defaults in effect.
func (s *Suite) options(c CaseSpec) *convert.Options {
	if s.RootNamespace == nil && s.Options == nil && c.Options == nil {
		return nil
	}
	o := convert.DefaultOptions()
	if s.RootNamespace != nil {
		o = o.WithRootNamespace(*s.RootNamespace)
	}
	s.Options.apply(&o)
	c.Options.apply(&o)
	return &o
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
