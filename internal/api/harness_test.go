package api_test

import (
	"alcyxob/coaching-platform/internal/api"
	"alcyxob/coaching-platform/internal/metrics"
	"alcyxob/coaching-platform/internal/repository/memory"
	"alcyxob/coaching-platform/internal/service"
	"alcyxob/coaching-platform/internal/session"
	"alcyxob/coaching-platform/internal/storage"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t           *testing.T
	router      *gin.Engine
	metrics     *metrics.Manager
	registry    *prometheus.Registry
	files       *storage.MemoryStorage
	coachToken  string
	clientToken string
	coachID     string
	clientID    string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	files := storage.NewMemoryStorage("https://cdn.example.com")
	m, reg := metrics.NewTestManagerAndRegistry()

	exercises := service.NewExerciseService(store.Exercises)
	workouts := service.NewWorkoutService(store, exercises)
	programs := service.NewProgramService(store)
	logs := service.NewLogStore(store)
	assignments := service.NewAssignmentService(store, programs, workouts, logs)
	svc := api.Services{
		Auth:        service.NewAuthService(store.Users, "test-secret", time.Hour),
		Exercises:   exercises,
		Workouts:    workouts,
		Programs:    programs,
		Assignments: assignments,
		Roster:      service.NewRosterService(store.Users),
		Logs:        logs,
		Activities:  service.NewActivityService(store, assignments, files),
		Sessions:    service.NewSessionService(session.NewManager(time.Hour, nil), assignments, workouts, logs, m, utcNow),
	}

	router := gin.New()
	router.Use(api.RequestMetrics(m))
	api.SetupRoutes(router, svc, m, reg)

	a := &testAPI{t: t, router: router, metrics: m, registry: reg, files: files}
	a.coachID, a.coachToken = a.signUp("Coach", "coach@example.com", "coach", "")
	a.clientID, a.clientToken = a.signUp("Client", "client@example.com", "client", a.coachID)
	return a
}

func (a *testAPI) signUp(name, email, role, coachID string) (id, token string) {
	a.t.Helper()
	body := map[string]string{"name": name, "email": email, "password": "secret-pass", "role": role}
	if coachID != "" {
		body["coachId"] = coachID
	}
	rec := a.call(http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "secret-pass"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[api.LoginResponse](a.t, rec)
	return login.User.ID, login.Token
}

// call sends body as JSON unless it already is an io.Reader.
func (a *testAPI) call(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func utcNow() time.Time { return time.Now().UTC() }
