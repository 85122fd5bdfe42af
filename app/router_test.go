package app

import (
	"bitwise74/forms-api/db"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/pkg/security"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	deps   *internal.Deps
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// db.New refuses to create the file when running in a container
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	gdb, err := db.New(db.Options{
		Driver: db.DriverSQLite,
		DSN:    path,
	})
	require.NoError(t, err)

	tokens, err := security.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	d := internal.NewDeps(gdb, security.New(), tokens)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testServer{
		t:      t,
		router: NewEngine(ctx, d, Options{}),
		deps:   d,
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type formJSON struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type questionJSON struct {
	ID      string   `json:"id"`
	FormID  string   `json:"formId"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

type answerJSON struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type responseJSON struct {
	ID              string       `json:"id"`
	FormID          string       `json:"formId"`
	RespondentName  *string      `json:"respondentName"`
	RespondentEmail *string      `json:"respondentEmail"`
	Answers         []answerJSON `json:"answers"`
}

type errorJSON struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
	RequestID string `json:"requestID"`
}

// login registers a user and returns its id and a bearer token
func (s *testServer) login(email string) (string, string) {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/users", "", gin.H{"email": email, "password": "password123", "name": "Test"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/sessions", "", gin.H{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	body := decode[struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}](s.t, w)
	require.NotEmpty(s.t, body.Token)

	return body.UserID, body.Token
}

func (s *testServer) createForm(token, title string) formJSON {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/forms", token, gin.H{"title": title})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[formJSON](s.t, w)
}

func (s *testServer) createQuestion(token, formID string, body gin.H) questionJSON {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/forms/"+formID+"/questions", token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[questionJSON](s.t, w)
}

func TestHeartbeat(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodHead, "/api/heartbeat", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOpenAPI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestResponseLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("owner@example.com")

	form := s.createForm(token, "T")
	q1 := s.createQuestion(token, form.ID, gin.H{"text": "Name?", "type": "shorttext"})
	q2 := s.createQuestion(token, form.ID, gin.H{"text": "Pick", "type": "multiplechoice", "options": []string{"A", "B"}})

	base := "/api/forms/" + form.ID + "/responses"

	w := s.do(http.MethodPost, base, token, gin.H{
		"answers": []gin.H{
			{"questionId": q1.ID, "answer": "x"},
			{"questionId": q2.ID, "answer": "A"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[responseJSON](t, w)
	assert.Equal(t, form.ID, created.FormID)
	assert.Equal(t, []answerJSON{{q1.ID, "x"}, {q2.ID, "A"}}, created.Answers)

	w = s.do(http.MethodPatch, base+"/"+created.ID, token, gin.H{"answers": []gin.H{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "answers")))

	w = s.do(http.MethodGet, base+"/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "answers")))
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))

	raw, ok := m[field]
	require.True(t, ok, "missing field %q in %s", field, body)
	return raw
}

func TestResponseCreateRejects(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("owner@example.com")

	form := s.createForm(token, "T")
	q := s.createQuestion(token, form.ID, gin.H{"text": "Q", "type": "shorttext"})
	base := "/api/forms/" + form.ID + "/responses"

	tests := []struct {
		name    string
		path    string
		body    any
		status  int
		message string
	}{
		{"empty answers", base, gin.H{"answers": []gin.H{}}, http.StatusBadRequest, "At least one answer is required"},
		{"no answers", base, gin.H{}, http.StatusBadRequest, "At least one answer is required"},
		{"answers not an array", base, gin.H{"answers": "x"}, http.StatusBadRequest, "Validation failed"},
		{"missing answer", base, gin.H{"answers": []gin.H{{"questionId": q.ID}}}, http.StatusBadRequest, "Each answer must have questionId and answer fields"},
		{"missing questionId", base, gin.H{"answers": []gin.H{{"answer": "x"}}}, http.StatusBadRequest, "Each answer must have questionId and answer fields"},
		{"unknown question", base, gin.H{"answers": []gin.H{{"questionId": q.ID, "answer": "x"}, {"questionId": "999", "answer": "y"}}}, http.StatusBadRequest, "Question with ID 999 not found"},
		{"respondent name not a string", base, gin.H{"respondentName": 5, "answers": []gin.H{{"questionId": q.ID, "answer": "x"}}}, http.StatusBadRequest, "Validation failed"},
		{"unknown form", "/api/forms/999/responses", gin.H{"answers": []gin.H{{"questionId": q.ID, "answer": "x"}}}, http.StatusNotFound, "Form not found"},
		{"unknown form with bad answers", "/api/forms/999/responses", gin.H{"answers": []gin.H{{"answer": "x"}}}, http.StatusNotFound, "Form not found"},
		{"malformed json", base, "{", http.StatusBadRequest, "Malformed or invalid JSON request body"},
		{"bad form id", "/api/forms/abc/responses", gin.H{}, http.StatusBadRequest, "Invalid form ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, token, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			e := decode[errorJSON](t, w)
			assert.Equal(t, tt.status, e.Code)
			assert.Equal(t, tt.message, e.Message)
			assert.NotEmpty(t, e.RequestID)
		})
	}

	w := s.do(http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]responseJSON](t, w))
}

func TestResponseNumericIDsAndArrays(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("owner@example.com")

	form := s.createForm(token, "T")
	q := s.createQuestion(token, form.ID, gin.H{"text": "Pick", "type": "checkbox", "options": []string{"A", "B"}})

	w := s.do(http.MethodPost, "/api/forms/"+form.ID+"/responses", token,
		`{"respondentName":"Ada","answers":[{"questionId":`+q.ID+`,"answer":["A","B"]}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	r := decode[responseJSON](t, w)
	require.NotNil(t, r.RespondentName)
	assert.Equal(t, "Ada", *r.RespondentName)
	assert.Nil(t, r.RespondentEmail)
	assert.Equal(t, []answerJSON{{q.ID, `["A","B"]`}}, r.Answers)
}

func TestResponseEditRespondent(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("owner@example.com")

	form := s.createForm(token, "T")
	q := s.createQuestion(token, form.ID, gin.H{"text": "Q", "type": "shorttext"})
	base := "/api/forms/" + form.ID + "/responses"

	w := s.do(http.MethodPost, base, token, gin.H{
		"respondentName":  "Bob",
		"respondentEmail": "bob@example.com",
		"answers":         []gin.H{{"questionId": q.ID, "answer": "x"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	r := decode[responseJSON](t, w)

	// Omitted fields stay, null clears
	w = s.do(http.MethodPatch, base+"/"+r.ID, token, `{"respondentName":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[responseJSON](t, w)
	assert.Nil(t, got.RespondentName)
	require.NotNil(t, got.RespondentEmail)
	assert.Equal(t, "bob@example.com", *got.RespondentEmail)
	assert.Equal(t, []answerJSON{{q.ID, "x"}}, got.Answers)

	w = s.do(http.MethodGet, base+"/"+r.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `null`, string(mustField(t, w.Body.Bytes(), "respondentName")))

	w = s.do(http.MethodPatch, base+"/"+r.ID, token, gin.H{"respondentName": "Robert"})
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[responseJSON](t, w)
	require.NotNil(t, got.RespondentName)
	assert.Equal(t, "Robert", *got.RespondentName)
	require.NotNil(t, got.RespondentEmail)
}

func TestResponseScopingAndDelete(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("owner@example.com")

	a := s.createForm(token, "A")
	b := s.createForm(token, "B")
	qb := s.createQuestion(token, b.ID, gin.H{"text": "Q", "type": "paragraph"})

	w := s.do(http.MethodPost, "/api/forms/"+b.ID+"/responses", token, gin.H{"answers": []gin.H{{"questionId": qb.ID, "answer": "x"}}})
	require.Equal(t, http.StatusCreated, w.Code)
	r := decode[responseJSON](t, w)

	w = s.do(http.MethodGet, "/api/forms/"+a.ID+"/responses/"+r.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Response not found", decode[errorJSON](t, w).Message)

	w = s.do(http.MethodPatch, "/api/forms/"+a.ID+"/responses/"+r.ID, token, gin.H{"respondentName": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/forms/"+a.ID+"/responses/"+r.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/forms/"+b.ID+"/responses/"+r.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/forms/"+b.ID+"/responses/"+r.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.login("ada@example.com")

	w := s.do(http.MethodGet, "/api/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, decode[userJSON](t, w).ID)

	w = s.do(http.MethodPost, "/api/sessions", "", gin.H{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/sessions", "", gin.H{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, "/api/sessions", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Revoked even though the token itself is still valid
	w = s.do(http.MethodGet, "/api/sessions", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", decode[errorJSON](t, w).Message)

	w = s.do(http.MethodGet, "/api/forms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decode[errorJSON](t, w).Message)
}

func TestUsers(t *testing.T) {
	s := newTestServer(t)
	adaID, ada := s.login("ada@example.com")
	graceID, _ := s.login("grace@example.com")

	w := s.do(http.MethodPost, "/api/users", "", gin.H{"email": "ada@example.com", "password": "password123", "name": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/users", "", gin.H{"email": "bad", "password": "password123", "name": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/users", ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]userJSON](t, w), 2)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodGet, "/api/users/"+graceID, ada, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "grace@example.com", decode[userJSON](t, w).Email)

	w = s.do(http.MethodGet, "/api/users/999", ada, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, "/api/users/"+graceID, ada, gin.H{"name": "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/users/"+adaID, ada, gin.H{"email": "grace@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPatch, "/api/users/"+adaID, ada, gin.H{"name": "Ada L", "password": "newpassword1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `true`, string(mustField(t, w.Body.Bytes(), "passwordChanged")))

	w = s.do(http.MethodPost, "/api/sessions", "", gin.H{"email": "ada@example.com", "password": "newpassword1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	form := s.createForm(ada, "Mine")

	w = s.do(http.MethodDelete, "/api/users/"+adaID, ada, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Sessions went with the user
	w = s.do(http.MethodGet, "/api/forms/"+form.ID, ada, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForms(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.login("owner@example.com")
	_, other := s.login("other@example.com")

	w := s.do(http.MethodPost, "/api/forms", owner, gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'd'
	}
	w = s.do(http.MethodPost, "/api/forms", owner, gin.H{"title": "T", "description": string(long)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form := s.createForm(owner, "Survey")
	s.createForm(other, "Not yours")

	w = s.do(http.MethodGet, "/api/forms", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]formJSON](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Survey", list[0].Title)

	w = s.do(http.MethodGet, "/api/forms?limit=0", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/forms?sort=size", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/forms/"+form.ID, other, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/forms/"+form.ID, other, gin.H{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/forms/"+form.ID, owner, gin.H{"description": "About"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[formJSON](t, w)
	assert.Equal(t, "Survey", updated.Title)
	assert.Equal(t, "About", updated.Description)

	w = s.do(http.MethodDelete, "/api/forms/"+form.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/forms/"+form.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/forms/"+form.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	e := decode[errorJSON](t, w)
	assert.Equal(t, "Form not found", e.Message)
	require.Len(t, e.Details, 1)
	assert.Equal(t, "Form with ID "+form.ID+" does not exist", e.Details[0].Message)
}

func TestQuestions(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.login("owner@example.com")
	_, other := s.login("other@example.com")

	form := s.createForm(owner, "T")
	base := "/api/forms/" + form.ID + "/questions"

	w := s.do(http.MethodPost, base, owner, gin.H{"text": "Q", "type": "slider"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base, owner, gin.H{"text": "Q", "type": "dropdown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base, other, gin.H{"text": "Q", "type": "shorttext"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	q1 := s.createQuestion(owner, form.ID, gin.H{"text": "One", "type": "shorttext"})
	q2 := s.createQuestion(owner, form.ID, gin.H{"text": "Two", "type": "dropdown", "options": []string{"x", "y"}})

	w = s.do(http.MethodGet, base, other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]questionJSON](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, []string{q1.ID, q2.ID}, []string{list[0].ID, list[1].ID})
	assert.Equal(t, []string{"x", "y"}, list[1].Options)

	w = s.do(http.MethodPatch, base+"/"+q1.ID, owner, gin.H{"type": "checkbox", "options": []string{"a"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "checkbox", decode[questionJSON](t, w).Type)

	otherForm := s.createForm(owner, "Other")
	w = s.do(http.MethodGet, "/api/forms/"+otherForm.ID+"/questions/"+q1.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/forms/"+otherForm.ID+"/questions/"+q1.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, base+"/"+q1.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/forms/999/questions", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportDisabled(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.login("owner@example.com")
	form := s.createForm(owner, "T")

	w := s.do(http.MethodPost, "/api/forms/"+form.ID+"/exports", owner, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
