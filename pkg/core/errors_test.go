package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/docstore/pkg/core"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{"NotFound", core.NewNotFoundError("c", "1", cause), core.ErrNotFound, []error{core.ErrWriteFailed, core.ErrDeleteFailed}},
		{"WriteFailed", core.NewWriteFailedError("c", "1", cause), core.ErrWriteFailed, []error{core.ErrNotFound, core.ErrDeleteFailed}},
		{"DeleteFailed", core.NewDeleteFailedError("c", "1", cause), core.ErrDeleteFailed, []error{core.ErrNotFound, core.ErrWriteFailed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, tt.err, cause)
			for _, other := range tt.others {
				assert.NotErrorIs(t, tt.err, other)
			}

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Contains(t, tt.err.Error(), `"c"`)
			assert.Contains(t, tt.err.Error(), cause.Error())
		})
	}
}

func TestNotFoundError(t *testing.T) {
	t.Run("CarriesLocation", func(t *testing.T) {
		var nf *core.NotFoundError
		err := fmt.Errorf("read: %w", core.NewNotFoundError("notes", "42", nil))
		assert.ErrorAs(t, err, &nf)
		assert.Equal(t, "notes", nf.Collection)
		assert.Equal(t, "42", nf.ID)
		assert.Nil(t, errors.Unwrap(nf))
	})

	t.Run("ScanFailureHasNoID", func(t *testing.T) {
		err := core.NewNotFoundError("notes", "", errors.New("io"))
		assert.Contains(t, err.Error(), "could not be read")
	})

	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, core.IsNotFound(core.NewNotFoundError("c", "1", nil)))
		assert.False(t, core.IsNotFound(errors.New("other")))
		assert.False(t, core.IsNotFound(nil))
	})
}
