package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResponseError_FieldErrors(t *testing.T) {
	body := `{"username":["A user with that username already exists."],
		"password1":["This password is too short.","This password is too common."],
		"email":"Enter a valid email address."}`

	e := newResponseError(http.StatusBadRequest, []byte(body))

	assert.Equal(t, "", e.Message)
	assert.Equal(t, []string{
		"email: Enter a valid email address.",
		"password1: This password is too short. This password is too common.",
		"username: A user with that username already exists.",
	}, e.FieldMessages())
}

func TestNewResponseError_MessagePrecedence(t *testing.T) {
	e := newResponseError(http.StatusBadRequest, []byte(`{"detail":"d","message":"m"}`))
	assert.Equal(t, "m", e.Message)

	e = newResponseError(http.StatusForbidden, []byte(`{"detail":"You do not have permission."}`))
	assert.Equal(t, "You do not have permission.", e.Message)
	assert.Contains(t, e.Error(), "403")

	e = newResponseError(http.StatusBadRequest, []byte(`{"non_field_errors":["bad","creds"]}`))
	assert.Equal(t, "bad creds", e.Message)
}

func TestNewResponseError_NonJSONBody(t *testing.T) {
	e := newResponseError(http.StatusBadGateway, []byte("upstream down"))
	assert.Empty(t, e.Message)
	assert.Empty(t, e.Fields)
	assert.Equal(t, "backend returned 502 Bad Gateway", e.Error())
}
