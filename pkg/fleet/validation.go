package fleet

import (
	"fmt"
	"strings"
)

type FieldProblem struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// ValidationError aggregates every field level problem of one request.
type ValidationError struct {
	Problems []FieldProblem `json:"problems"`
}

func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Problems))
	for i, p := range v.Problems {
		parts[i] = fmt.Sprintf("%s %s", p.Field, p.Problem)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (v *ValidationError) add(field, problem string) {
	v.Problems = append(v.Problems, FieldProblem{Field: field, Problem: problem})
}

func (v *ValidationError) check(ok bool, field, problem string) {
	if !ok {
		v.add(field, problem)
	}
}

// orNil keeps a nil *ValidationError from turning into a non-nil error.
func (v *ValidationError) orNil() error {
	if len(v.Problems) == 0 {
		return nil
	}
	return v
}
