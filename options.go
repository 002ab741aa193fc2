package conjure

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/conjure/ir"
)

// SafetyMode controls whether log safety declarations are mandatory.
type SafetyMode string

const (
	// SafetyAllowed accepts declarations but does not require them.
	SafetyAllowed SafetyMode = "allowed"

	// SafetyRequired makes every primitive-typed field, alias and argument
	// declare its log safety.
	SafetyRequired SafetyMode = "required"
)

// Options configures a Compiler.
type Options struct {
	SafetyDeclarations SafetyMode `schema:"safety-declarations" validate:"omitempty,oneof=allowed required"`

	// Strict turns legacy field names and query parameter ids, which are
	// otherwise reported as warnings, into errors.
	Strict bool `schema:"strict"`

	// Version is the definition version to emit. Zero means
	// ir.SupportedVersion.
	Version int `schema:"version" validate:"gte=0"`
}

var (
	optionsDecoder  = schema.NewDecoder()
	optionsValidate = validator.New()
)

// ParseOptions decodes key=value options, as given on the command line, into
// Options. Unknown keys are an error.
func ParseOptions(values map[string][]string) (Options, error) {
	var o Options
	if err := optionsDecoder.Decode(&o, values); err != nil {
		return Options{}, fmt.Errorf("invalid options: %w", err)
	}
	if err := optionsValidate.Struct(&o); err != nil {
		return Options{}, fmt.Errorf("invalid options: %w", err)
	}
	return o, nil
}

func (o Options) version() int {
	if o.Version == 0 {
		return ir.SupportedVersion
	}
	return o.Version
}

func (o Options) requireSafety() bool { return o.SafetyDeclarations == SafetyRequired }
