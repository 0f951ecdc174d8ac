package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/otp"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository/memory"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-1"

type fakeNotifier struct {
	mu       sync.Mutex
	messages []domain.MailMessage
}

func (n *fakeNotifier) Notify(msg domain.MailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *fakeNotifier) sent() []domain.MailMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.MailMessage(nil), n.messages...)
}

type fakeOTPStore struct {
	codes map[string]string
}

func (s *fakeOTPStore) Issue(purpose, subject string) (string, error) {
	s.codes[purpose+":"+subject] = "123456"
	return "123456", nil
}

func (s *fakeOTPStore) Verify(purpose, subject, code string) error {
	if s.codes[purpose+":"+subject] != code {
		return otp.ErrInvalidCode
	}
	return nil
}

func (s *fakeOTPStore) Revoke(purpose, subject string) error {
	delete(s.codes, purpose+":"+subject)
	return nil
}

// fixture is a small org: manager -> alice, bob; other manager -> carol.
type fixture struct {
	t        *testing.T
	h        *Handler
	repo     *memory.Repository
	notifier *fakeNotifier
	otps     *fakeOTPStore

	manager      *domain.Employee
	alice        *domain.Employee
	bob          *domain.Employee
	otherManager *domain.Employee
	carol        *domain.Employee
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.AllowedOrigin = "http://localhost:5173"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.RateLimit.Auth = "1000-M"
	cfg.OTP.Expiration = 900
	cfg.NewEmployee.PasswordLength = 12
	return cfg
}

func newFixture(t *testing.T, configure ...func(*config.Config)) *fixture {
	t.Helper()

	cfg := testConfig()
	for _, fn := range configure {
		fn(cfg)
	}

	f := &fixture{
		t:        t,
		repo:     memory.NewRepository(),
		notifier: &fakeNotifier{},
		otps:     &fakeOTPStore{codes: make(map[string]string)},
	}

	h, err := NewHandler(cfg, f.repo, f.notifier, f.otps, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	f.h = h

	f.manager = f.addEmployee("Morgan Manager", "morgan@example.com", true, nil)
	f.alice = f.addEmployee("Alice Adams", "alice@example.com", false, &f.manager.ID)
	f.bob = f.addEmployee("Bob Brown", "bob@example.com", false, &f.manager.ID)
	f.otherManager = f.addEmployee("Olive Other", "olive@example.com", true, nil)
	f.carol = f.addEmployee("Carol Clark", "carol@example.com", false, &f.otherManager.ID)
	return f
}

func (f *fixture) addEmployee(name, email string, isManager bool, managerID *string) *domain.Employee {
	f.t.Helper()

	hash, err := utils.HashPassword(testPassword)
	require.NoError(f.t, err)

	employee := &domain.Employee{
		Name:         name,
		Email:        email,
		Role:         "Associate",
		Eligible:     true,
		Active:       true,
		IsManager:    isManager,
		ManagerID:    managerID,
		PasswordHash: hash,
	}
	require.NoError(f.t, f.repo.CreateEmployee(employee))
	return employee
}

func (f *fixture) login(email string) string {
	f.t.Helper()

	res := f.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(f.t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(f.t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(f.t, body.Token)
	return body.Token
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.h.Mux.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the {data: ...} envelope into v.
func decodeData(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body), res.Body.String())
	require.NoError(t, json.Unmarshal(body.Data, v))
}

func messageOf(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body), res.Body.String())
	return body.Message
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	res := f.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)

	res := f.do(http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Route not found.", messageOf(t, res))
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture(t)
	valid := f.login(f.alice.Email)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"lower-case scheme", "bearer " + valid, http.StatusOK},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.h.Mux.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	f := newFixture(t)

	// a negative TTL issues tokens that are already expired
	f.h.tokens = token.NewIssuer("test-secret", -time.Minute)
	stale := f.login(f.alice.Email)

	res := f.do(http.MethodGet, "/auth/me", stale, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRateLimitOnLogin(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.RateLimit.Auth = "2-M" })

	body := map[string]string{"email": f.alice.Email, "password": "wrong-password"}
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/auth/login", "", body).Code)

	res := f.do(http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.NotEmpty(t, messageOf(t, res))
}

func TestRecovererTurnsPanicsIntoInternalServerError(t *testing.T) {
	f := newFixture(t)
	f.h.Mux.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	res := f.do(http.MethodGet, "/boom", "", nil)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "Internal server error.", messageOf(t, res))
}
