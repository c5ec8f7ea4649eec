package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/microlearn-api/config"
	"github.com/example/microlearn-api/middleware"
	"github.com/example/microlearn-api/pipeline"
)

const testSecret = "test-secret"

// scriptedGenerator replays canned model responses in call order.
type scriptedGenerator struct {
	responses []string
	calls     int
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", context.Canceled
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

// newTestServer wires the same route table as main.go around an
// in-memory database and a scripted generator.
func newTestServer(t *testing.T, gen pipeline.Generator) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	h := &DBHandler{
		DB:            db,
		SessionSecret: testSecret,
		Pipeline:      &pipeline.Processor{DB: db, Generator: gen},
	}

	authed := func(hf http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireSession(db, testSecret, hf)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", authed(h.Me))
	mux.HandleFunc("POST /api/upload", authed(h.Upload))
	mux.HandleFunc("GET /api/notes", authed(h.GetNotes))
	mux.HandleFunc("GET /api/notes/{id}", authed(h.GetNoteByID))
	mux.HandleFunc("GET /api/notes/{id}/quiz", authed(h.GetQuizForNote))
	mux.HandleFunc("POST /api/progress", authed(h.SaveProgress))
	mux.HandleFunc("GET /api/progress", authed(h.GetProgress))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, db
}

// newClient returns an http client with its own cookie jar, i.e. one
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, client *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerUser(t *testing.T, client *http.Client, baseURL, username, email string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "hunter22",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func uploadDocument(t *testing.T, client *http.Client, baseURL, filename, contentType string, payload []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="document"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
