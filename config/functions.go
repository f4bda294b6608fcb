package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/cradle-build/cradle/internal/errors"
)

const (
	FuncNameGetEnv = "get_env"
)

// NewEvalContext returns the evaluation context of a settings file.
func NewEvalContext(env map[string]string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			FuncNameGetEnv: getEnvFuncImpl(env),
		},
	}
}

// getEnvFuncImpl implements `get_env(name, default)`. The default is optional; an unset variable without a default
// evaluates to an empty string.
func getEnvFuncImpl(env map[string]string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{
				Name: "name",
				Type: cty.String,
			},
		},
		VarParam: &function.Parameter{
			Name: "default",
			Type: cty.String,
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if len(args) > 2 {
				return cty.StringVal(""), errors.New(WrongNumberOfParamsError{Func: FuncNameGetEnv, Expected: "1 or 2", Actual: len(args)})
			}

			name := args[0].AsString()

			if val, ok := lookupEnv(env, name); ok {
				return cty.StringVal(val), nil
			}

			if len(args) == 2 {
				return args[1], nil
			}

			return cty.StringVal(""), nil
		},
	})
}
