package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The storage conflict sentinel is an internal retry marker; callers of the
// Manager must only ever see the error taxonomy.
func TestTaxonomyForSubmit(t *testing.T) {
	var conflictErr *ConflictError
	require.ErrorAs(t, taxonomyForSubmit(errStorageConflict), &conflictErr)
	require.ErrorAs(t, taxonomyForSubmit(fmt.Errorf("submit: %w", errStorageConflict)), &conflictErr)

	assert.NoError(t, taxonomyForSubmit(nil))

	otherErr := errors.New("connection refused")
	assert.Equal(t, otherErr, taxonomyForSubmit(otherErr))
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, taxonomyForSubmit(&NotFoundError{Resource: "content"}), &notFoundErr)
}
