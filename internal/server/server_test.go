package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vesaa/showcase/internal/app"
	"github.com/vesaa/showcase/internal/config"
	"github.com/vesaa/showcase/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	srv, err := New(&config.Config{
		SessionSecret:   "test-secret",
		SessionTTLHours: 1,
		PageTitle:       "Showcase",
		PageLayout:      "wide",
		ChartWidth:      400,
		ChartHeight:     200,
	}, st)
	require.NoError(t, err)
	return srv.Engine()
}

// client replays the session cookie across requests.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) state() map[string]string {
	rec := c.get("/api/state")
	require.Equal(c.t, http.StatusOK, rec.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestPageRenders(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie, "session cookie should be issued")
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Showcase</title>")
	assert.Contains(t, body, "Website Sample!")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `href="/download/example_data.csv"`)
	assert.Contains(t, body, "Thank you for exploring this app!")
	assert.NotContains(t, body, "Hello,")
}

func TestSubmitShowsGreeting(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	c.get("/")

	rec := c.post(url.Values{app.KeyName: {"Ann"}, app.KeyAge: {"30"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.get("/")
	assert.Contains(t, rec.Body.String(), "Hello, Ann! You are 30 years old.")
}

func TestSubmitClampsAndDefaults(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	c.post(url.Values{app.KeyAge: {"999"}, app.KeySlider: {"-4"}})

	st := c.state()
	assert.Equal(t, "120", st[app.KeyAge])
	assert.Equal(t, "0", st[app.KeySlider])
	assert.Equal(t, "false", st[app.KeyMoreInfo])
}

func TestCheckboxToggle(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	const extra = "This is additional information displayed based on your choice."

	c.post(url.Values{app.KeyMoreInfo: {"on"}})
	assert.Contains(t, c.get("/").Body.String(), extra)

	// an unticked checkbox is simply absent from the form
	c.post(url.Values{app.KeyName: {"Ann"}})
	assert.NotContains(t, c.get("/").Body.String(), extra)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newTestServer(t)
	a := &client{t: t, h: h}
	b := &client{t: t, h: h}

	a.post(url.Values{app.KeyName: {"Ann"}, app.KeyAge: {"30"}})
	b.get("/")

	assert.Equal(t, "Ann", a.state()[app.KeyName])
	assert.Equal(t, "", b.state()[app.KeyName])
}

func TestForgedCookieStartsNewSession(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	c.cookie = &http.Cookie{Name: sessionCookie, Value: "not-a-jwt"}

	c.get("/")
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, "not-a-jwt", c.cookie.Value)
}

func TestDownload(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}

	rec := c.get("/download/example_data.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=example_data.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, app.ExampleCSV, rec.Body.String())

	rec = c.get("/download/other.csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChart(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}

	rec := c.get("/chart/0.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	assert.Equal(t, http.StatusNotFound, c.get("/chart/1.svg").Code)
	assert.Equal(t, http.StatusBadRequest, c.get("/chart/abc.svg").Code)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	rec := c.get("/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.cookie, "healthz must not start a session")
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStaticAndNoRoute(t *testing.T) {
	c := &client{t: t, h: newTestServer(t)}
	assert.Equal(t, http.StatusOK, c.get("/static/style.css").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/nowhere").Code)
}

func TestSessionsIssueParse(t *testing.T) {
	s := NewSessions("k1", time.Hour)
	id := uuid.NewString()

	tok, err := s.Issue(id)
	require.NoError(t, err)
	got, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = NewSessions("k2", time.Hour).Parse(tok)
	assert.Error(t, err)

	expired, err := NewSessions("k1", -time.Minute).Issue(id)
	require.NoError(t, err)
	_, err = s.Parse(expired)
	assert.Error(t, err)
}
