package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindClassification(t *testing.T) {
	assert.True(t, IsValidation(Validation("quantity must be non-zero")))
	assert.True(t, IsState(State("replenishment is %s", "RECEIVED")))
	assert.True(t, IsNotFound(NotFound("shop not found")))
	assert.True(t, IsPersistence(Persistence(errors.New("dial tcp: refused"))))

	// plain errors carry no kind
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestFromDB(t *testing.T) {
	assert.True(t, IsNotFound(FromDB(gorm.ErrRecordNotFound, "movement")))
	assert.True(t, IsPersistence(FromDB(errors.New("connection reset"), "movement")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Persistence(cause)
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("receiving replenishment: %w", err)
	assert.True(t, IsPersistence(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, HTTPStatus(Validation("bad")))
	assert.Equal(t, 409, HTTPStatus(State("terminal")))
	assert.Equal(t, 404, HTTPStatus(NotFound("gone")))
	assert.Equal(t, 503, HTTPStatus(Persistence(errors.New("down"))))
	assert.Equal(t, 500, HTTPStatus(errors.New("unknown")))
}
