package suite

import (
	"bytes"
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

func parseYAML(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// parseCUE unifies the file with the #Suite definition before decoding, so
// unknown fields and bad enum values are reported with CUE positions.
func parseCUE(path string, data []byte) (*Suite, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling suite schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %s", cueDetails(err))
	}

	unified := schema.LookupPath(cue.ParsePath("#Suite")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("suite does not match schema: %s", cueDetails(err))
	}

	var s Suite
	if err := unified.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding suite: %w", err)
	}
	return &s, nil
}

func cueDetails(err error) string {
	return string(bytes.TrimSpace([]byte(cueerrors.Details(err, nil))))
}
