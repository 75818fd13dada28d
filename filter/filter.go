// Package filter compiles boolean expressions for narrowing search and
// chart results. Expressions use the expr language and are evaluated
// against a record's fields, e.g.:
//
//	type == "feature" and contains(title, "shawshank")
//	startsWith(imdb_id, "tt") and year != ""
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression ready for evaluation. It is
// safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile parses and compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Allow record fields
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a single record.
func (f *Filter) Match(record map[string]any) (bool, error) {
	env := make(map[string]any, len(record)+8)
	addHelperFunctions(env)
	for key, value := range record {
		env[key] = value
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// Guaranteed bool by the AsBool compile option.
	return result.(bool), nil
}

// Apply returns the records matching the filter, keeping input order.
func (f *Filter) Apply(records []map[string]any) ([]map[string]any, error) {
	matches := make([]map[string]any, 0, len(records))
	for _, record := range records {
		ok, err := f.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// helperFunctions creates the static helper environment used during compilation
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}
