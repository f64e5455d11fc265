package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSuccessResponse(t *testing.T) {
	resp := BuildSuccessResponse(200, map[string]string{"id": "1"}, "ok")
	assert.Equal(t, 200, resp[ResponseFieldStatusCode])
	assert.Equal(t, "ok", resp[ResponseFieldMessage])
	assert.Equal(t, map[string]string{"id": "1"}, resp[ResponseFieldData])
}

func TestBuildErrorResponse(t *testing.T) {
	resp := BuildErrorResponse(401, "Authentication failed")
	assert.Equal(t, 401, resp[ResponseFieldStatusCode])
	assert.Equal(t, "Authentication failed", resp[ResponseFieldMessage])
	assert.NotContains(t, resp, ResponseFieldErrors)

	resp = BuildErrorResponse(400, "Invalid request", "username must not be empty", "email must be a valid email address")
	assert.Equal(t, []string{"username must not be empty", "email must be a valid email address"}, resp[ResponseFieldErrors])
}

func TestBuildListPayload(t *testing.T) {
	payload := BuildListPayload(42, 2, 5, []int{1, 2, 3})
	assert.Equal(t, int64(42), payload[ResponseFieldTotal])
	assert.Equal(t, 2, payload[ResponseFieldPage])
	assert.Equal(t, 5, payload[ResponseFieldPageTotal])
	assert.Equal(t, []int{1, 2, 3}, payload[ResponseFieldDocs])
}
