package teachers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/response"
)

type fakeExecutor struct {
	execTag pgconn.CommandTag
	rows    *fakeRows
	row     pgx.Row
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return f.execTag, nil
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return f.rows, nil
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	return f.row
}

type fakeRows struct {
	data   [][]interface{}
	cursor int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.cursor >= len(r.data) {
		return false
	}
	r.cursor++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	return assignRow(r.data[r.cursor-1], dest)
}

func assignRow(values []interface{}, dest []interface{}) error {
	for i, d := range dest {
		switch target := d.(type) {
		case *int:
			*target = values[i].(int)
		case *string:
			*target = values[i].(string)
		default:
			return errors.New("unsupported destination type")
		}
	}
	return nil
}

type scanRow struct {
	values []interface{}
	err    error
}

func (r scanRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return assignRow(r.values, dest)
}

func stubAuth(principal *auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal == nil {
				response.Error(w, apperror.NewTokenMissingError())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func newRouter(exec *fakeExecutor, principal *auth.Principal) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(NewTeacherService(exec)).RegisterRoutes(r, stubAuth(principal))
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env response.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, env
}

func TestListTeachersForbiddenForAPIUser(t *testing.T) {
	router := newRouter(&fakeExecutor{}, &auth.Principal{ERP: "17855", Role: auth.RoleAPIUser})

	rec, env := doRequest(t, router, http.MethodGet, "/teachers", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "User unauthorized for action" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestListTeachersUnauthorized(t *testing.T) {
	router := newRouter(&fakeExecutor{}, nil)

	rec, env := doRequest(t, router, http.MethodGet, "/teachers", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "Access denied. No token credentials sent" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestListTeachers(t *testing.T) {
	exec := &fakeExecutor{rows: &fakeRows{data: [][]interface{}{
		{1, "Waseem Arain", "5.000", 1},
	}}}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodGet, "/teachers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := env.Body.([]interface{})
	first := list[0].(map[string]interface{})
	// The rating must survive as the fixed-precision string, not a float.
	if first["average_rating"] != "5.000" {
		t.Errorf("average_rating = %v", first["average_rating"])
	}
}

func TestListTeachersEmpty(t *testing.T) {
	exec := &fakeExecutor{rows: &fakeRows{}}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodGet, "/teachers", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "Teachers not found" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestCreateTeacher(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: []interface{}{3}}}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodPost, "/teachers", `{"full_name":"Shams Naveed"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	body := env.Body.(map[string]interface{})
	if body["teacher_id"].(float64) != 3 || body["affected_rows"].(float64) != 1 {
		t.Errorf("body = %v", body)
	}
}

func TestCreateTeacherInvalidParam(t *testing.T) {
	router := newRouter(&fakeExecutor{}, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodPost, "/teachers", `{"full_names":"Shams Naveed"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Code != "InvalidPropertiesException" {
		t.Errorf("code = %q", env.Headers.Code)
	}
	params := map[string]bool{}
	for _, f := range env.Headers.Data.([]interface{}) {
		params[f.(map[string]interface{})["param"].(string)] = true
	}
	if !params["full_name"] {
		t.Errorf("missing param full_name in %v", env.Headers.Data)
	}
}

func TestUpdateTeacherNotFound(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("UPDATE 0")}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodPatch, "/teachers/999", `{"full_name":"Shams Naveed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "Teacher not found" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestDeleteTeacher(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("DELETE 1")}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAdmin})

	rec, env := doRequest(t, router, http.MethodDelete, "/teachers/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "Teacher has been deleted" {
		t.Errorf("message = %q", env.Headers.Message)
	}
	if env.Body.(map[string]interface{})["rows_removed"].(float64) != 1 {
		t.Errorf("body = %v", env.Body)
	}
}
