package handler_test

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursekit/coursekit/internal/pkg/errcode"
)

func randomEmail() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf) + "@example.com"
}

func TestAuthRegisterAndLogin(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	email := randomEmail()
	token := registerUser(t, router, email)
	require.NotEmpty(t, token)

	// Duplicate registration is rejected.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret-password",
	})
	require.Equal(t, errcode.ErrConflict, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret-password",
	})
	require.Zero(t, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "wrong-password",
	})
	require.Equal(t, errcode.ErrUnauthorized, resp.Code)
}

func TestAuthRequiredOnPages(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp := doJSON(t, router, http.MethodPost, "/api/v1/pages", "", map[string]string{
		"type":  "course",
		"title": "x",
	})
	require.Equal(t, errcode.ErrUnauthorized, resp.Code)
}

func TestAuthWeakPasswordRejected(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    randomEmail(),
		"password": "short",
	})
	require.Equal(t, errcode.ErrInvalid, resp.Code)
}
