package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/adapters/persistence/models"
	"riskdesk/internal/adapters/persistence/repositories"
	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/config"
	"riskdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeScoring is an in-process stand-in for the scoring service
type fakeScoring struct {
	mu      sync.Mutex
	revoked map[string]bool
	calls   map[string]int
}

func (f *fakeScoring) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
}

func (f *fakeScoring) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeScoring) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	revoked := f.revoked[token]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	write := func(status int, body string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	switch {
	case r.URL.Path == "/login":
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "pw" {
			write(http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
			return
		}
		role := "OFFICER"
		if r.PostForm.Get("username") == "admin" {
			role = "ADMIN"
		}
		write(http.StatusOK, `{"access_token":"upstream-`+r.PostForm.Get("username")+`","token_type":"bearer","role":"`+role+`"}`)
		return
	case r.URL.Path == "/health":
		write(http.StatusOK, `{"status":"ok","model_loaded":true,"timestamp":"2024-01-01T00:00:00"}`)
		return
	}

	if token == "" || revoked {
		write(http.StatusUnauthorized, `{"detail":"Invalid token"}`)
		return
	}

	switch {
	case r.URL.Path == "/analytics":
		if !strings.HasPrefix(token, "upstream-admin") {
			write(http.StatusForbidden, `{"detail":"Access denied"}`)
			return
		}
		write(http.StatusOK, `{"total_customers":10,"summary_counts":{"LOW":6,"HIGH":4},"percentage":{"LOW":60.0,"HIGH":40.0},"average_confidence":0.8123}`)
	case r.URL.Path == "/top_risky":
		write(http.StatusOK, `[
			{"borrower_id":11.0,"risk":"HIGH","prob":0.70,"missed_emi_count":2,"max_delay_days":20,"emi_income_ratio":0.5},
			{"borrower_id":12.0,"risk":"HIGH","prob":0.95,"missed_emi_count":5,"max_delay_days":80,"emi_income_ratio":0.9},
			{"borrower_id":13.0,"risk":"HIGH","prob":0.80,"missed_emi_count":3,"max_delay_days":40,"emi_income_ratio":0.7}
		]`)
	case r.URL.Path == "/need_officer":
		write(http.StatusOK, `{"total_cases":2,"cases":[
			{"borrower_id":9,"missed_emi_count":4,"max_delay_days":60,"emi_income_ratio":0.8},
			{"borrower_id":3,"missed_emi_count":1,"max_delay_days":15,"emi_income_ratio":0.3}
		]}`)
	case r.URL.Path == "/risk_history/42":
		write(http.StatusOK, `{"borrower_id":42,"history":[
			{"risk_level":"LOW","risk_score":0.2,"action":"NONE","timestamp":"2024-01-01T00:00:00","source":"DB_HISTORY"},
			{"risk_level":"HIGH","risk_score":0.9,"action":"CALL","timestamp":"2024-03-01T00:00:00","source":"DB_HISTORY"}
		]}`)
	case strings.HasPrefix(r.URL.Path, "/risk_history/"):
		write(http.StatusOK, `{"message":"No history found for this borrower"}`)
	default:
		write(http.StatusNotFound, `{"detail":"Not Found"}`)
	}
}

type testEnv struct {
	app     *fiber.App
	scoring *fakeScoring
	db      *gorm.DB
	cfg     *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Session: config.SessionConfig{Secret: "test-secret", Days: 7},
		Cookie:  config.CookieConfig{Name: "riskdesk_session", SameSite: "lax"},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newApp(t *testing.T, db *gorm.DB, gatewayURL string, cfg *config.Config) *fiber.App {
	t.Helper()
	store := services.NewSessionStore(repositories.NewSessionRepository(db))
	require.NoError(t, store.Warm(context.Background()))

	gateway := scoring.NewGatewayWithClient(gatewayURL, &http.Client{Timeout: 5 * time.Second})
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, cfg, store, gateway, func() error { return nil })
	return app
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := &fakeScoring{revoked: map[string]bool{}, calls: map[string]int{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	db := newTestDB(t)
	cfg := testConfig()
	return &testEnv{app: newApp(t, db, srv.URL, cfg), scoring: fake, db: db, cfg: cfg}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Shell struct {
			Path     string `json:"path"`
			Title    string `json:"title"`
			Username string `json:"username"`
			Role     string `json:"role"`
			NavLinks []struct {
				Path string `json:"path"`
			} `json:"nav_links"`
		} `json:"shell"`
		View json.RawMessage `json:"view"`
	} `json:"data"`
}

func (e envelope) navPaths() []string {
	paths := make([]string, 0, len(e.Data.Shell.NavLinks))
	for _, l := range e.Data.Shell.NavLinks {
		paths = append(paths, l.Path)
	}
	return paths
}

type listView struct {
	TotalCases int                      `json:"total_cases"`
	Searched   bool                     `json:"searched"`
	Message    string                   `json:"message"`
	Data       []map[string]interface{} `json:"data"`
	Meta       struct {
		Page       int    `json:"page"`
		PageSize   int    `json:"page_size"`
		TotalPages int    `json:"total_pages"`
		Matched    int    `json:"matched"`
		Sort       string `json:"sort"`
		Dir        string `json:"dir"`
	} `json:"meta"`
}

func (env *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (env *testEnv) get(t *testing.T, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	return env.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookie)
}

func (env *testEnv) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(t, req, nil)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "riskdesk_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func (env *testEnv) loginAs(t *testing.T, username string) *http.Cookie {
	t.Helper()
	resp := env.login(t, username, "pw")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	return sessionCookie(t, resp)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireRedirect(t *testing.T, resp *http.Response, target string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, target, resp.Header.Get("Location"))
}

func TestRoutes_UnauthenticatedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/analytics", "/toprisky", "/need-officer", "/history", "/nowhere"} {
		requireRedirect(t, env.get(t, path, nil), "/login")
	}
	assert.Zero(t, env.scoring.count("/top_risky"))
}

func TestRoutes_LoginPage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")

	body := decode[envelope](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "Loan Risk AI - Secure Login", body.Data.Shell.Title)
	assert.Empty(t, body.Data.Shell.NavLinks)
}

func TestRoutes_LoginFailures(t *testing.T) {
	env := newTestEnv(t)

	resp := env.login(t, "oli", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.MsgMissingCredentials, decode[envelope](t, resp).Error)
	assert.Zero(t, env.scoring.count("/login"))

	resp = env.login(t, "oli", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, services.MsgInvalidCredentials, decode[envelope](t, resp).Error)
	for _, c := range resp.Cookies() {
		assert.NotEqual(t, "riskdesk_session", c.Name)
	}
}

func TestRoutes_OfficerSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	requireRedirect(t, env.get(t, "/login", cookie), "/")

	resp := env.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[envelope](t, resp)
	assert.Equal(t, "oli", body.Data.Shell.Username)
	assert.Equal(t, "OFFICER", body.Data.Shell.Role)
	assert.Equal(t, []string{"/", "/toprisky", "/need-officer", "/history"}, body.navPaths())

	// Analytics is blocked for officers even when typed directly.
	requireRedirect(t, env.get(t, "/analytics", cookie), "/")
	assert.Zero(t, env.scoring.count("/analytics"))

	requireRedirect(t, env.get(t, "/nowhere", cookie), "/")
}

func TestRoutes_AdminAnalytics(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "admin")

	resp := env.get(t, "/analytics/", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[envelope](t, resp)
	assert.Equal(t, "Analytics Overview", body.Data.Shell.Title)
	assert.Contains(t, body.navPaths(), "/analytics")

	var view services.AnalyticsView
	require.NoError(t, json.Unmarshal(body.Data.View, &view))
	assert.Equal(t, 10, view.TotalCustomers)
	assert.InDelta(t, 81.2, view.ConfidenceGauge, 1e-9)
	require.Len(t, view.Distribution, 2)
	assert.Equal(t, "HIGH", string(view.Distribution[0].Tier))
	assert.Equal(t, "LOW", string(view.Distribution[1].Tier))
}

func TestRoutes_TopRiskyListView(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	resp := env.get(t, "/toprisky", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view listView
	require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
	require.Len(t, view.Data, 3)
	assert.EqualValues(t, 12, view.Data[0]["borrower_id"])
	assert.EqualValues(t, 13, view.Data[1]["borrower_id"])
	assert.Equal(t, "prob", view.Meta.Sort)
	assert.Equal(t, "desc", view.Meta.Dir)
	assert.Equal(t, 5, view.Meta.PageSize)

	resp = env.get(t, "/toprisky?sort=borrower_id&dir=asc&page_size=7&page=9", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = listView{}
	require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
	assert.EqualValues(t, 11, view.Data[0]["borrower_id"])
	assert.Equal(t, 5, view.Meta.PageSize)
	assert.Equal(t, 1, view.Meta.Page)

	resp = env.get(t, "/toprisky?q=12", cookie)
	view = listView{}
	require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
	require.Len(t, view.Data, 1)
	assert.Equal(t, 1, view.Meta.Matched)
}

func TestRoutes_NeedOfficer(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	resp := env.get(t, "/need-officer", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view listView
	require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
	assert.Equal(t, 2, view.TotalCases)
	require.Len(t, view.Data, 2)
	assert.EqualValues(t, 3, view.Data[0]["borrower_id"])
	assert.Equal(t, "/history?borrower_id=3", view.Data[0]["history_path"])

	// The link opens that borrower's history.
	resp = env.get(t, view.Data[0]["history_path"].(string), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_History(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	t.Run("no borrower id fetches nothing", func(t *testing.T) {
		resp := env.get(t, "/history", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view listView
		require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
		assert.False(t, view.Searched)
		assert.Empty(t, view.Data)
	})

	t.Run("blank borrower id", func(t *testing.T) {
		resp := env.get(t, "/history?borrower_id=", cookie)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[envelope](t, resp)
		assert.Equal(t, services.MsgMissingBorrowerID, body.Error)
		assert.Equal(t, "Borrower Risk History", body.Data.Shell.Title)
	})

	t.Run("entries newest first", func(t *testing.T) {
		resp := env.get(t, "/history?borrower_id=42", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view listView
		require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
		assert.True(t, view.Searched)
		require.Len(t, view.Data, 2)
		assert.Equal(t, "HIGH", view.Data[0]["risk_level"])
	})

	t.Run("nothing on record", func(t *testing.T) {
		resp := env.get(t, "/history?borrower_id=7", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view listView
		require.NoError(t, json.Unmarshal(decode[envelope](t, resp).Data.View, &view))
		assert.Equal(t, "No history found for this borrower", view.Message)
		assert.Empty(t, view.Data)
	})

	assert.Equal(t, 1, env.scoring.count("/risk_history/42"))
}

func TestRoutes_UpstreamUnauthorizedClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")
	env.scoring.revoke("upstream-oli")

	resp := env.get(t, "/toprisky", cookie)
	requireRedirect(t, resp, "/login")
	cleared := sessionCookie(t, resp)
	assert.Empty(t, cleared.Value)

	requireRedirect(t, env.get(t, "/", cookie), "/login")
}

func TestRoutes_Logout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	for i := 0; i < 2; i++ {
		resp := env.do(t, httptest.NewRequest(http.MethodPost, "/logout", nil), cookie)
		requireRedirect(t, resp, "/login")
	}
	requireRedirect(t, env.get(t, "/", cookie), "/login")

	resp := env.do(t, httptest.NewRequest(http.MethodPost, "/logout", nil), nil)
	requireRedirect(t, resp, "/login")
}

func TestRoutes_TamperedCookie(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	parts := strings.Split(cookie.Value, ".")
	require.Len(t, parts, 3)
	parts[2] = strings.Repeat("A", len(parts[2]))
	forged := &http.Cookie{Name: cookie.Name, Value: strings.Join(parts, ".")}
	requireRedirect(t, env.get(t, "/", forged), "/login")
}

func TestRoutes_SessionSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	srv := httptest.NewServer(env.scoring)
	t.Cleanup(srv.Close)
	restarted := &testEnv{app: newApp(t, env.db, srv.URL, env.cfg), scoring: env.scoring, db: env.db, cfg: env.cfg}

	resp := restarted.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "oli", decode[envelope](t, resp).Data.Shell.Username)
}

func TestRoutes_ScoringUnreachable(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "oli")

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	offline := &testEnv{app: newApp(t, env.db, deadURL, env.cfg), db: env.db, cfg: env.cfg}

	resp := offline.get(t, "/toprisky", cookie)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decode[envelope](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "Top Risk Borrowers", body.Data.Shell.Title)
	assert.Equal(t, "oli", body.Data.Shell.Username)

	// The session survives a connectivity failure.
	requireRedirect(t, offline.get(t, "/login", cookie), "/")
}

func TestRoutes_Health(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["scoring"])
	assert.Equal(t, true, checks["model_loaded"])
}
