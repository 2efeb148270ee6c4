package connections

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/response"
)

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
	NewHandler(NewConnectionService(exec)).RegisterRoutes(r, stubAuth(principal))
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

func TestCreateForOtherSenderForbidden(t *testing.T) {
	router := newRouter(&fakeExecutor{}, &auth.Principal{ERP: "17855", Role: auth.RoleAPIUser})

	body := `{"sender_erp":"17619","receiver_erp":"17123","sent_at":"2021-10-04 17:24:40"}`
	rec, env := doRequest(t, router, http.MethodPost, "/connections", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "User unauthorized for action" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestCreateSelfConnectionRejected(t *testing.T) {
	router := newRouter(&fakeExecutor{}, &auth.Principal{ERP: "17855", Role: auth.RoleAPIUser})

	body := `{"sender_erp":"17855","receiver_erp":"17855","sent_at":"2021-10-04 17:24:40"}`
	rec, env := doRequest(t, router, http.MethodPost, "/connections", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Code != "InvalidPropertiesException" {
		t.Errorf("code = %q", env.Headers.Code)
	}
}

func TestAcceptBySenderForbidden(t *testing.T) {
	// The row is pending with 17855 as the sender; the sender cannot accept
	// their own request.
	exec := &fakeExecutor{row: scanRow{values: connectionValues(12, StatusRequestPending)}}
	router := newRouter(exec, &auth.Principal{ERP: "17855", Role: auth.RoleAPIUser})

	body := `{"connection_status":"friends","accepted_at":"2021-10-05 12:00:00"}`
	rec, env := doRequest(t, router, http.MethodPatch, "/connections/12", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Code != "ForbiddenException" {
		t.Errorf("code = %q", env.Headers.Code)
	}
}

func TestAcceptByReceiver(t *testing.T) {
	exec := &fakeExecutor{
		row:     scanRow{values: connectionValues(12, StatusRequestPending)},
		execTag: pgconn.NewCommandTag("UPDATE 1"),
	}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAPIUser})

	body := `{"connection_status":"friends","accepted_at":"2021-10-05 12:00:00"}`
	rec, env := doRequest(t, router, http.MethodPatch, "/connections/12", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, headers = %+v", rec.Code, env.Headers)
	}
	b := env.Body.(map[string]interface{})
	if b["rows_matched"].(float64) != 1 || b["rows_changed"].(float64) != 1 {
		t.Errorf("body = %v", b)
	}
}

func TestAcceptAlreadyFriendsRejected(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: connectionValues(12, StatusFriends)}}
	router := newRouter(exec, &auth.Principal{ERP: "17619", Role: auth.RoleAPIUser})

	body := `{"connection_status":"friends","accepted_at":"2021-10-05 12:00:00"}`
	rec, env := doRequest(t, router, http.MethodPatch, "/connections/12", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Code != "BadRequestException" {
		t.Errorf("code = %q", env.Headers.Code)
	}
}

func TestDeleteByOutsiderForbidden(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: connectionValues(12, StatusFriends)}}
	router := newRouter(exec, &auth.Principal{ERP: "99999", Role: auth.RoleAPIUser})

	rec, env := doRequest(t, router, http.MethodDelete, "/connections/12", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "User unauthorized for action" {
		t.Errorf("message = %q", env.Headers.Message)
	}
}

func TestDeleteByEitherEndpoint(t *testing.T) {
	exec := &fakeExecutor{
		row:     scanRow{values: connectionValues(12, StatusFriends)},
		execTag: pgconn.NewCommandTag("DELETE 1"),
	}
	router := newRouter(exec, &auth.Principal{ERP: "17855", Role: auth.RoleAPIUser})

	rec, env := doRequest(t, router, http.MethodDelete, "/connections/12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Headers.Message != "Connection has been deleted" {
		t.Errorf("message = %q", env.Headers.Message)
	}
	if env.Body.(map[string]interface{})["rows_removed"].(float64) != 1 {
		t.Errorf("body = %v", env.Body)
	}
}
