package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/server/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	e := newTestEnv(t, nil, nil)

	w, out := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", out["status"])
	d := data(t, out)
	assert.Equal(t, "alice", d["username"])
	assert.Equal(t, "alice@example.com", d["email"])
	assert.NotEmpty(t, d["token"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w, out = e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, d["id"], data(t, out)["id"])
}

func TestSignup_Failures(t *testing.T) {
	e := newTestEnv(t, nil, nil)
	e.signup(t, "alice")

	w, out := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "new@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", out["status"])
	assert.Equal(t, "User already exists", out["message"])

	w, out = e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters", out["message"])

	w, _ = e.do(t, http.MethodPost, "/auth/signup", "not an object", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_NoAccountExistenceLeak(t *testing.T) {
	e := newTestEnv(t, nil, nil)
	e.signup(t, "alice")

	wrong, _ := e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	}, "")
	unknown, _ := e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestProtect(t *testing.T) {
	e := newTestEnv(t, nil, nil)
	id, token := e.signup(t, "alice")

	expired, err := auth.GenerateToken(id, []byte(testConfig().SecretKey), -time.Minute)
	require.NoError(t, err)
	forged, err := auth.GenerateToken(id, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer garbage"},
		{"expired", "Bearer " + expired},
		{"bad signature", "Bearer " + forged},
		{"wrong scheme", "Basic " + token},
		{"empty bearer", "Bearer "},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/post/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"status":"fail","message":"Not authorized"}`, w.Body.String())
			bodies = append(bodies, w.Body.String())
		})
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}

	w, _ := e.do(t, http.MethodGet, "/post/user", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorName(t *testing.T) {
	e := newTestEnv(t, nil, nil)
	id, _ := e.signup(t, "alice")

	w, out := e.do(t, http.MethodGet, "/auth/author/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", data(t, out)["name"])

	w, _ = e.do(t, http.MethodGet, "/auth/author/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(t, http.MethodGet, "/auth/author/not-an-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
