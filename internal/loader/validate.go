package loader

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/statemig/internal/wire"
)

//go:embed rules.cue
var rulesCUE string

// validator checks decoded documents against the #Schema definition.
// It is not safe for concurrent use; loading is single-threaded.
type validator struct {
	ctx *cue.Context
	def cue.Value
}

func newValidator() (*validator, error) {
	ctx := cuecontext.New()
	rules := ctx.CompileString(rulesCUE, cue.Filename("rules.cue"))
	if err := rules.Err(); err != nil {
		return nil, fmt.Errorf("compile rules.cue: %w", err)
	}

	def := rules.LookupPath(cue.ParsePath("#Schema"))
	if !def.Exists() {
		return nil, fmt.Errorf("rules.cue: #Schema not defined")
	}
	return &validator{ctx: ctx, def: def}, nil
}

// validate checks a JSON document. The caller has already verified that it
// parses and that its root is an object.
func (v *validator) validate(name string, doc []byte) error {
	expr, err := cuejson.Extract(name, doc)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedDocument, firstCUEError(err))
	}
	val := v.ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedDocument, firstCUEError(err))
	}

	unified := v.def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", wire.ErrSchemaField, firstCUEError(err))
	}
	return nil
}

// firstCUEError formats the first of possibly many CUE errors, with its position.
func firstCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}

	first := errs[0]
	msg := first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		pos := positions[0]
		return fmt.Sprintf("line %d:%d: %s", pos.Line(), pos.Column(), msg)
	}
	return msg
}
