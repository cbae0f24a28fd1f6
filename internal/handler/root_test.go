package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yuto1106110/plus-chat-api/internal/handler"
)

func TestHealthcheck(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.ServeHealthcheck()(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.ServeRoot()(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plus-chat-api")
}
