//go:build unit

package entities_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	signatures := []entities.FailureSignature{
		entities.NewTemporaryErrorSignature(entities.DefaultFatalMarker),
		entities.SignaturePackageIDSpecification,
	}

	t.Run("should classify the package ID specification error as recoverable", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.ExecutionFailure{
			Stderr: "error: package ID specification `foo@1.0.0` did not match any packages",
		}

		// when
		class, name := entities.Classify(err, signatures...)

		// then
		assert.Equal(t, entities.FailureRecoverable, class)
		assert.Equal(t, "package-id-specification", name)
	})

	t.Run("should match the signature case-insensitively", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.ExecutionFailure{Stderr: "ERROR: Package ID Specification `foo` matched nothing"}

		// when
		class, _ := entities.Classify(err, signatures...)

		// then
		assert.Equal(t, entities.FailureRecoverable, class)
	})

	t.Run("should prefer the fatal class over a recoverable match", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.ExecutionFailure{
			Stderr:  "error: package ID specification `foo@1.0.0` did not match any packages",
			Message: "temporary-error",
		}

		// when
		class, _ := entities.Classify(err, signatures...)

		// then
		assert.Equal(t, entities.FailureFatal, class)
	})

	t.Run("should classify wrapped temporary errors as fatal", func(t *testing.T) {
		t.Parallel()

		// when
		class, _ := entities.Classify(fmt.Errorf("%w: timeout", entities.ErrTemporary), signatures...)
		plain, _ := entities.Classify(errors.New("temporary-error"), signatures...)

		// then
		assert.Equal(t, entities.FailureFatal, class)
		assert.Equal(t, entities.FailureFatal, plain)
	})

	t.Run("should classify anything else as terminal", func(t *testing.T) {
		t.Parallel()

		// when
		class, name := entities.Classify(&entities.ExecutionFailure{Stderr: "error: no matching package"}, signatures...)
		other, _ := entities.Classify(errors.New("exit status 1"), signatures...)

		// then
		assert.Equal(t, entities.FailureTerminal, class)
		assert.Empty(t, name)
		assert.Equal(t, entities.FailureTerminal, other)
	})

	t.Run("should support new stderr signatures", func(t *testing.T) {
		t.Parallel()

		// given
		custom := entities.NewStderrSignature(
			"no-matching-package", entities.FailureRecoverable, regexp.MustCompile(`no matching package named`),
		)
		err := &entities.ExecutionFailure{Stderr: "error: no matching package named `foo` found"}

		// when
		class, name := entities.Classify(err, custom)

		// then
		assert.Equal(t, entities.FailureRecoverable, class)
		assert.Equal(t, "no-matching-package", name)
		assert.Equal(t, "recoverable", class.String())
	})
}
