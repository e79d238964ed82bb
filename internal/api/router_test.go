package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/portfolio-be/internal/api"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/database/databasetest"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/websocket"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testIssuer = "portfolio-test"
	adminEmail = "owner@example.com"
)

type testApp struct {
	db      *database.DB
	handler http.Handler
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	db := databasetest.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub()
	go hub.Run(ctx)

	tokens := auth.NewTokenManager(testSecret, time.Hour, testIssuer)
	events := services.NewEventService(db, hub)
	users := services.NewUserService(db).WithAdmins([]string{adminEmail})

	handler := api.NewRouter(api.Options{
		Guard:          auth.NewGuard(tokens),
		DB:             db,
		Hub:            hub,
		AuthService:    services.NewAuthService(users, auth.NewHasher(bcrypt.MinCost), tokens, events),
		ProjectService: services.NewProjectService(db),
		BlogService:    services.NewBlogService(db),
		ContactService: services.NewContactService(db, events),
		ProfileService: services.NewProfileService(db),
		EventService:   events,
		AllowedOrigins: []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
	})
	return testApp{db: db, handler: handler}
}

func (a testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a testApp) userCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, a.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func (a testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func registerAlice(t *testing.T, app testApp) {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "Alice@Example.com",
		"password":  "Str0ngPass",
		"firstName": "Alice",
		"lastName":  "Liddell",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func registerAdmin(t *testing.T, app testApp) string {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    adminEmail,
		"password": "Adm1nPass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return app.login(t, adminEmail, "Adm1nPass")
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Str0ngPass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Str0ngPass")
	assert.NotContains(t, rec.Body.String(), "$2a$")
	assert.NotContains(t, rec.Body.String(), "password")

	token := app.login(t, "ALICE@example.com", "Str0ngPass")

	rec = app.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)

	rec = app.do(t, http.MethodGet, "/projects", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
	assert.Equal(t, `Bearer realm="api"`, rec.Header().Get("WWW-Authenticate"))
}

func TestExpiredTokenIsRejected(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	rec := app.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))

	expired, err := auth.NewTokenManager(testSecret, -time.Minute, testIssuer).Issue(me)
	require.NoError(t, err)

	rec = app.do(t, http.MethodGet, "/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := auth.NewTokenManager([]byte("another-secret-another-secret-xx"), time.Hour, testIssuer).Issue(me)
	require.NoError(t, err)
	rec = app.do(t, http.MethodGet, "/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWeakPasswordPersistsNothing(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "bob@example.com",
		"password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"password"`)
	assert.Zero(t, app.userCount(t))
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "Str0ngPass",
		"avatar":   "nope",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid input", body.Error)
	var fields []string
	for _, f := range body.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "avatar"}, fields)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, app.userCount(t))
}

func TestDuplicateRegistration(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)

	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    " alice@EXAMPLE.com",
		"password": "An0therPass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, app.userCount(t))
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)

	wrong := app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Wr0ngPass"})
	unknown := app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "Str0ngPass"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestPublicAndUnknownRoutes(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	rec := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPut, "/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentRoutes(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	rec := app.do(t, http.MethodPost, "/projects", token, map[string]interface{}{
		"title":        "Portfolio",
		"technologies": []string{"go"},
		"githubUrl":    "https://github.com/example/portfolio",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.True(t, project.IsPublished)

	rec = app.do(t, http.MethodPatch, "/projects/"+project.ID, token, map[string]interface{}{"order": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/blog", token, map[string]interface{}{"title": "Hello World", "content": "body"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/blog/slug/hello-world", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var post models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, 1, post.Views)

	rec = app.do(t, http.MethodPost, "/blog", token, map[string]interface{}{"title": "Hello World", "content": "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/blog", token, map[string]interface{}{"title": "Later", "content": "x", "status": "scheduled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/contact", token, map[string]string{"name": "Visitor", "email": "v@example.com", "message": "Hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/contact/unread-count", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/events?limit=5", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/events?limit=5", registerAdmin(t, app), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), services.EventContactReceived)

	rec = app.do(t, http.MethodDelete, "/projects/"+project.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/projects/"+project.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	rec := app.do(t, http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/profile", token, map[string]interface{}{
		"fullName":    "Alice Liddell",
		"email":       "Alice@Example.com",
		"socialLinks": map[string]string{"github": "not a url"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"socialLinks.github"`)

	rec = app.do(t, http.MethodPost, "/profile", token, map[string]interface{}{
		"fullName":    "Alice Liddell",
		"email":       "Alice@Example.com",
		"socialLinks": map[string]string{"github": "https://github.com/alice"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var profile models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "alice@example.com", profile.Email)

	rec = app.do(t, http.MethodPatch, "/profile/"+profile.ID, token, map[string]string{"title": "Explorer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Explorer"`)

	rec = app.do(t, http.MethodPost, "/profile/skills", token, map[string]interface{}{"name": "Go", "category": "Languages", "proficiency": 101})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"proficiency"`)

	rec = app.do(t, http.MethodPost, "/profile/skills", token, map[string]interface{}{"name": "Go", "category": "Languages", "proficiency": 90})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var skill models.Skill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skill))
	assert.True(t, skill.IsActive)

	rec = app.do(t, http.MethodGet, "/profile/skills?active=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), skill.ID)

	rec = app.do(t, http.MethodPost, "/profile/experiences", token, map[string]interface{}{
		"title": "Engineer", "company": "Acme", "startDate": "2020-01-01", "endDate": "2019-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"endDate"`)

	rec = app.do(t, http.MethodPost, "/profile/experiences", token, map[string]interface{}{
		"title": "Engineer", "company": "Acme", "startDate": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/profile/educations", token, map[string]interface{}{
		"degree": "BSc", "institution": "Oxford", "startDate": "2010-10-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var edu models.Education
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edu))
	assert.Equal(t, "2010-10-01", edu.StartDate.String())

	rec = app.do(t, http.MethodDelete, "/profile/educations/"+edu.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/profile/educations/"+edu.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/profile/skills", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	rec := app.do(t, http.MethodPut, "/auth/me/password", token, map[string]string{
		"currentPassword": "Str0ngPass",
		"newPassword":     "N3wPassword",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	app.login(t, "alice@example.com", "N3wPassword")
}

func TestEventStream(t *testing.T) {
	app := newTestApp(t)
	registerAlice(t, app)
	token := app.login(t, "alice@example.com", "Str0ngPass")

	srv := httptest.NewServer(app.handler)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/ws"

	_, resp, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = gws.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + token}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := gws.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + registerAdmin(t, app)}})
	require.NoError(t, err)
	defer conn.Close()

	// The hub registers asynchronously; keep submitting until an event arrives.
	received := make(chan websocket.Message, 1)
	go func() {
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err == nil {
			received <- msg
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		rec := app.do(t, http.MethodPost, "/contact", token, map[string]string{"name": "V", "email": "v@example.com", "message": "Hi"})
		require.Equal(t, http.StatusCreated, rec.Code)
		select {
		case msg := <-received:
			assert.Equal(t, websocket.ActionEvent, msg.Action)
			payload, ok := msg.Payload.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, services.EventContactReceived, payload["type"])
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event received over websocket")
		}
	}
}
