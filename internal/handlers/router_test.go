package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupRouter_Health(t *testing.T) {
	_, r, _ := setupTestHandler(t)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := doRequest(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestSetupRouter_UnknownRoute(t *testing.T) {
	_, r, _ := setupTestHandler(t)

	req, _ := http.NewRequest(http.MethodGet, "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, doRequest(r, req).Code)
}
