package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBusinessError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusiness("invalid_state"))

	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "other"))

	code, ok := AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid_state", code)

	_, ok = AsBusiness(errors.New("plain"))
	assert.False(t, ok)
}

func TestPostgresConstraintErrors(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsExclusionConflict(unique))
	assert.True(t, IsExclusionConflict(exclusion))
	assert.False(t, IsUniqueViolation(errors.New("x")))
}
