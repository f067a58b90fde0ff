package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/database"
	"github.com/iliyamo/movie-ticketing/internal/middleware"
	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
)

type recordingEvents struct {
	got chan uint64
}

func (r *recordingEvents) PublishTicketPurchased(_ context.Context, t *model.Ticket) error {
	r.got <- t.ID
	return nil
}

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	events *recordingEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := hclog.NewNullLogger()
	cfg := config.Config{
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		SessionCookie: "session",
		BcryptCost:    bcrypt.MinCost,
	}
	tokens := repository.NewTokenRepo(nil)
	events := &recordingEvents{got: make(chan uint64, 8)}

	e := echo.New()
	e.Use(middleware.Session(middleware.SessionConfig{
		Secret: cfg.JWTSecret, CookieName: cfg.SessionCookie, Revoked: tokens, Log: log,
	}))
	e.GET("/", Index)
	e.GET("/healthz", Health(db))

	auth := NewAuthHandler(cfg, repository.NewUserRepo(db), tokens, log)
	e.POST("/signup", auth.Signup)
	e.POST("/login", auth.Login)
	e.DELETE("/logout", auth.Logout)
	e.DELETE("/clear", auth.Clear)
	e.GET("/check_session", auth.CheckSession)

	type crud interface {
		List(echo.Context) error
		Create(echo.Context) error
		Get(echo.Context) error
		Update(echo.Context) error
		Delete(echo.Context) error
	}
	mount := func(prefix string, h crud) {
		e.GET(prefix, h.List)
		e.POST(prefix, h.Create)
		e.GET(prefix+"/:id", h.Get)
		e.PATCH(prefix+"/:id", h.Update)
		e.DELETE(prefix+"/:id", h.Delete)
	}
	fixed := func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	movies := NewMovieHandler(repository.NewMovieRepo(db), log)
	movies.Now = fixed
	reviews := NewReviewHandler(repository.NewReviewRepo(db), log)
	reviews.Now = fixed
	mount("/movies", movies)
	mount("/theaters", NewTheatreHandler(repository.NewTheatreRepo(db), log))
	mount("/reviews", reviews)
	mount("/tickets", NewTicketHandler(repository.NewTicketRepo(db), events, log))

	return &testServer{e: e, db: db, events: events}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const dune = `{"title":"Dune","genre":"Sci-Fi","director":"Denis Villeneuve","release_date":"2024-03-01","poster_image":"https://img/p.jpg","trailer_url":"ftp://nope"}`

func (s *testServer) seed(t *testing.T) (userID, movieID, theatreID float64) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/signup", `{"username":"amina","email":"amina@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	userID = decode(t, rec)["id"].(float64)

	rec = s.do(t, http.MethodPost, "/movies", dune)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	movieID = decode(t, rec)["id"].(float64)

	rec = s.do(t, http.MethodPost, "/theaters", `{"name":"Prestige","location":"Sarit Centre","capacity":80}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	theatreID = decode(t, rec)["theatre"].(map[string]interface{})["id"].(float64)
	return
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project Server")

	rec = s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMovieLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/movies", dune)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "in theatres", body["tag"])
	assert.Nil(t, body["trailer_url"])
	assert.Equal(t, []interface{}{}, body["review_ratings"])
	id := body["id"].(float64)

	rec = s.do(t, http.MethodGet, "/movies", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Dune"`)

	rec = s.do(t, http.MethodPatch, "/movies/1", `{"release_date":"2030-01-01","trailer_url":"https://t"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, "Movie updated successfully.", body["message"])
	movie := body["movie"].(map[string]interface{})
	assert.Equal(t, "2030-01-01", movie["release_date"])
	assert.Equal(t, "in theatres", movie["tag"])
	assert.Equal(t, "https://t", movie["trailer_url"])

	rec = s.do(t, http.MethodPatch, "/movies/1", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/movies/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Movie deleted successfully.", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/movies/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie not found", decode(t, rec)["error"])
	assert.Equal(t, float64(1), id)
}

func TestMovieCreateValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/movies", `{"title":"Dune"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"validation errors"}, decode(t, rec)["errors"])

	bad := strings.Replace(dune, "2024-03-01", "03/01/2024", 1)
	rec = s.do(t, http.MethodPost, "/movies", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Release date must be in the format YYYY-MM-DD", decode(t, rec)["details"])
}

func TestTheatreEndpoints(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/theaters", `{"name":"Prestige"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation error: Missing required fields.", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/theaters", `{"name":"Prestige","location":"Mall","capacity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/theaters", `{"name":"Prestige","location":"Mall","capacity":70}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Theater created successfully.", decode(t, rec)["message"])

	rec = s.do(t, http.MethodPatch, "/theaters/1", `{"capacity":120}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(120), decode(t, rec)["theatre"].(map[string]interface{})["capacity"])

	rec = s.do(t, http.MethodGet, "/theaters/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Theater not found", decode(t, rec)["error"])
}

func TestPatchRejectsNullFields(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	rec := s.do(t, http.MethodPost, "/reviews", `{"rating":4,"comment":"tense","user_id":1,"movie_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPatch, "/theaters/1", `{"capacity":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to update theatre.", body["error"])
	assert.Equal(t, "capacity must not be null", body["details"])

	rec = s.do(t, http.MethodPatch, "/reviews/1", `{"rating":5,"comment":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "comment must not be null", decode(t, rec)["details"])

	rec = s.do(t, http.MethodPatch, "/movies/1", `{"title":null,"genre":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "genre, title must not be null", decode(t, rec)["details"])

	rec = s.do(t, http.MethodPatch, "/tickets/1", `{"price":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/theaters/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(80), decode(t, rec)["capacity"])

	rec = s.do(t, http.MethodGet, "/reviews/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	review := decode(t, rec)
	assert.Equal(t, "tense", review["comment"])
	assert.Equal(t, float64(4), review["rating"])

	rec = s.do(t, http.MethodPatch, "/theaters/1", `{"capacity":90}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(90), decode(t, rec)["theatre"].(map[string]interface{})["capacity"])
}

func TestReviewCreateStatuses(t *testing.T) {
	s := newTestServer(t)
	uid, mid, _ := s.seed(t)

	rec := s.do(t, http.MethodPost, "/reviews", `{"rating":4,"user_id":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []interface{}{"Validation errors: Missing required fields: comment, movie_id"}, decode(t, rec)["errors"])

	rec = s.do(t, http.MethodPost, "/reviews", `{"rating":-1,"comment":"x","user_id":1,"movie_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"Rating must be an integer above 0"}, decode(t, rec)["errors"])

	rec = s.do(t, http.MethodPost, "/reviews", `{"rating":6,"comment":"x","user_id":1,"movie_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to create review.", decode(t, rec)["errors"].([]interface{})[0])

	rec = s.do(t, http.MethodPost, "/reviews", `{"rating":3,"comment":"x","user_id":1,"movie_id":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/reviews", `{"rating":5,"comment":"","user_id":1,"movie_id":1,"submission_date":"2024-06-01 10:30:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Review added successfully.", body["message"])
	review := body["review"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"id": uid, "name": "amina"}, review["user"])
	assert.Equal(t, mid, review["movie"].(map[string]interface{})["id"])

	rec = s.do(t, http.MethodPatch, "/reviews/1", `{"rating":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	flat := decode(t, rec)["review"].(map[string]interface{})
	assert.Equal(t, float64(2), flat["rating"])
	assert.Equal(t, "2024-06-01 10:30:00", flat["submission_date"])

	rec = s.do(t, http.MethodGet, "/movies/1", "")
	assert.Equal(t, []interface{}{float64(2)}, decode(t, rec)["review_ratings"])
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := s.do(t, http.MethodPost, "/tickets", `{"user_id":1,"movie_id":1,"theatre_id":1,"price":350}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"error": "Validation error: Missing required fields."}, decode(t, rec))

	full := `{"user_id":1,"movie_id":1,"theatre_id":1,"price":350,"purchase_date":"2024-06-01","screen":2,"quantity":3,"showtime":"19:00"}`
	rec = s.do(t, http.MethodPost, "/tickets", strings.Replace(full, `"quantity":3`, `"quantity":0`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/tickets", full)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Ticket created successfully.", body["message"])
	assert.Equal(t, float64(3), body["ticket"].(map[string]interface{})["quantity"])

	select {
	case id := <-s.events.got:
		assert.Equal(t, uint64(1), id)
	case <-time.After(2 * time.Second):
		t.Fatal("ticket event was not published")
	}

	rec = s.do(t, http.MethodPatch, "/tickets/1", `{"price":99.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ticket := decode(t, rec)["ticket"].(map[string]interface{})
	assert.Equal(t, 99.5, ticket["price"])
	assert.Equal(t, float64(3), ticket["quantity"])

	rec = s.do(t, http.MethodPatch, "/tickets/1", `{"theatre_id":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/tickets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Prestige", list[0]["theatre"].(map[string]interface{})["name"])

	rec = s.do(t, http.MethodDelete, "/theaters/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/tickets/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupConflicts(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/signup", `{"username":"amina"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/signup", `{"username":"amina","email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.NotContains(t, body, "password_hash")
	assert.Equal(t, []interface{}{}, body["ticket_prices"])

	rec = s.do(t, http.MethodPost, "/signup", `{"username":"amina","email":"b@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/signup", `{"username":"brian","email":"a@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists", decode(t, rec)["error"])
}

func TestLoginSessionFlow(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := s.do(t, http.MethodPost, "/login", `{"username":"amina","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/login", `{"username":"ghost","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/check_session", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/login", `{"username":"amina","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amina", decode(t, rec)["username"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]
	assert.Equal(t, "session", session.Name)
	assert.True(t, session.HttpOnly)

	rec = s.do(t, http.MethodGet, "/check_session", "", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amina@example.com", decode(t, rec)["email"])

	rec = s.do(t, http.MethodDelete, "/logout", "", session)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)

	rec = s.do(t, http.MethodDelete, "/clear", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCheckSessionForDeletedUser(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	rec := s.do(t, http.MethodPost, "/login", `{"username":"amina","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Result().Cookies()[0]

	require.NoError(t, repository.NewUserRepo(s.db).Delete(context.Background(), 1))
	rec = s.do(t, http.MethodGet, "/check_session", "", session)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
