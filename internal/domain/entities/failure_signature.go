package entities

import (
	"errors"
	"regexp"
)

// FailureClass is the outcome of classifying a failed attempt.
type FailureClass int

const (
	// FailureTerminal is reported as an artifact error.
	FailureTerminal FailureClass = iota
	// FailureRecoverable is eligible for the filtered retry.
	FailureRecoverable
	// FailureFatal is returned to the caller unchanged.
	FailureFatal
)

func (c FailureClass) String() string {
	switch c {
	case FailureRecoverable:
		return "recoverable"
	case FailureFatal:
		return "fatal"
	default:
		return "terminal"
	}
}

// FailureSignature is a named predicate over a failed attempt.
type FailureSignature struct {
	Name    string
	Class   FailureClass
	matches func(err error) bool
}

// Matches reports whether err carries this signature.
func (s FailureSignature) Matches(err error) bool {
	if err == nil || s.matches == nil {
		return false
	}
	return s.matches(err)
}

// NewStderrSignature matches execution failures whose stderr matches pattern.
func NewStderrSignature(name string, class FailureClass, pattern *regexp.Regexp) FailureSignature {
	return FailureSignature{
		Name:  name,
		Class: class,
		matches: func(err error) bool {
			var failure *ExecutionFailure
			if !errors.As(err, &failure) {
				return false
			}
			return pattern.MatchString(failure.Stderr)
		},
	}
}

// NewTemporaryErrorSignature matches ErrTemporary and any error whose text
// equals marker.
func NewTemporaryErrorSignature(marker string) FailureSignature {
	return FailureSignature{
		Name:  "temporary-error",
		Class: FailureFatal,
		matches: func(err error) bool {
			if errors.Is(err, ErrTemporary) {
				return true
			}
			if marker == "" {
				return false
			}
			var failure *ExecutionFailure
			if errors.As(err, &failure) && failure.Message == marker {
				return true
			}
			return err.Error() == marker
		},
	}
}

// SignaturePackageIDSpecification is cargo's "package ID specification ...
// did not match" error, raised when a precise pin names a coordinate that an
// earlier step already moved.
var SignaturePackageIDSpecification = NewStderrSignature( //nolint:gochecknoglobals // closed signature set
	"package-id-specification",
	FailureRecoverable,
	regexp.MustCompile(`(?i)error: package ID specification`),
)

// Classify returns the class of the first matching signature, fatal
// signatures first, or FailureTerminal when none matches.
func Classify(err error, signatures ...FailureSignature) (FailureClass, string) {
	for _, wanted := range []FailureClass{FailureFatal, FailureRecoverable} {
		for _, s := range signatures {
			if s.Class == wanted && s.Matches(err) {
				return s.Class, s.Name
			}
		}
	}
	return FailureTerminal, ""
}
