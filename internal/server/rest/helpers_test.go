package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/logging"
	"github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/dmitrijs2005/wizardry/internal/server/generation"
	"github.com/dmitrijs2005/wizardry/internal/server/rate"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wizardry/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// recordingLogger keeps every message with its key/value args.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	msg  string
	args map[string]any
}

func (r *recordingLogger) add(msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kv := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			kv[k] = args[i+1]
		}
	}
	r.entries = append(r.entries, logEntry{msg: msg, args: kv})
}

func (r *recordingLogger) find(msg string) (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.msg == msg {
			return e.args, true
		}
	}
	return nil, false
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) { r.add(msg, args) }
func (r *recordingLogger) Info(_ context.Context, msg string, args ...any)  { r.add(msg, args) }
func (r *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { r.add(msg, args) }
func (r *recordingLogger) Error(_ context.Context, msg string, args ...any) { r.add(msg, args) }
func (r *recordingLogger) With(...any) logging.Logger                       { return r }

type fakeModel struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (m *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.out, m.err
}

type fakeSigner struct {
	userID      string
	contentType string
	err         error
}

func (f *fakeSigner) CreateUploadURL(ctx context.Context, userID, contentType string) (*services.UploadURL, error) {
	f.userID, f.contentType = userID, contentType
	if f.err != nil {
		return nil, f.err
	}
	return &services.UploadURL{
		Key:       "posts/" + userID + "/k",
		URL:       "http://minio/wizardry/posts/" + userID + "/k",
		ExpiresIn: 15 * time.Minute,
	}, nil
}

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	srv    *Server
	router *gin.Engine
	model  *fakeModel
	signer *fakeSigner
	store  *fakePinger
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                   config.EnvProduction,
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost,
		AllowedOrigins:        []string{"http://localhost:8080"},
	}
}

func newTestEnv(t *testing.T, cfg *config.Config, limiter rate.Limiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = testConfig()
	}
	if limiter == nil {
		limiter = rate.NewMemory(10000, time.Minute)
	}

	rm := repomanager.NewMemoryRepositoryManager()
	us, err := services.NewUserService(rm, cfg)
	require.NoError(t, err)

	env := &testEnv{
		model:  &fakeModel{},
		signer: &fakeSigner{},
		store:  &fakePinger{},
	}
	env.srv = NewServer(cfg, nopLogger{}, us, services.NewPostService(rm), env.signer,
		generation.NewClient(env.model, nopLogger{}), env.store, limiter)
	env.router = env.srv.Router()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

// signup registers a user and returns its id and token.
func (e *testEnv) signup(t *testing.T, username string) (string, string) {
	t.Helper()
	w, out := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := out["data"].(map[string]any)
	return data["id"].(string), data["token"].(string)
}

func data(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	d, ok := out["data"].(map[string]any)
	require.True(t, ok, "no data in %v", out)
	return d
}
