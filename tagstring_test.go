package tagstring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// user is a reflective scope used across tests
type user struct {
	Name    string
	Age     int
	Address *address
	Tags    []string
	secret  string
}

func (u user) Greeting() string {
	return "Hi " + u.Name
}

func (u user) GetRole() string {
	return "admin"
}

func (u user) IsActive() bool {
	return u.Age > 0
}

func (u user) Failing() (string, error) {
	return "", context.DeadlineExceeded
}

func (u user) WithArg(s string) string {
	return s
}

type address struct {
	City string
	Zip  string
}

// point is a non-string value with a stable string form
type point struct{ X, Y int }

func (p point) String() string {
	return "point"
}

// box is a Holder used to check unwrapping
type box struct{ v any }

func (b box) HeldValue() any { return b.v }

func testUser() user {
	return user{
		Name:    "Ada",
		Age:     36,
		Address: &address{City: "London", Zip: "N1"},
		Tags:    []string{"math", "engines"},
		secret:  "hidden",
	}
}

// newTestEvaluator builds a chain over values with the given options
func newTestEvaluator(t *testing.T, values map[string]any, opts ...Option) *Evaluator {
	t.Helper()
	ev, err := NewChain([]Resolver{MapResolver(values)}, opts...)
	require.NoError(t, err)
	return ev
}

func evalString(t *testing.T, ev *Evaluator, template string, args *Args) string {
	t.Helper()
	out, err := ev.EvaluateString(context.Background(), template, args)
	require.NoError(t, err)
	return out
}

// errorChainContains reports whether any error in the unwrap chain mentions msg
func errorChainContains(err error, msg string) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if strings.Contains(err.Error(), msg) {
			return true
		}
	}
	return false
}
