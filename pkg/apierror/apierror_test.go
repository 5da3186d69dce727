package apierror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: video not found (abc)", NotFound("video not found", "abc").Error())
	assert.Equal(t, "UNAUTHORIZED: invalid token", Unauthorized("invalid token").Error())

	var nilErr *APIError
	assert.Equal(t, "", nilErr.Error())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusOf(Conflict("username already exists", "alice")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("wrapped: %w", BadRequest("bad", ""))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("boom")))
}
