package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"loandesk-cli/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func ok(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	json.NewEncoder(w).Encode(envelope{Status: statusSuccess, Data: raw})
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request ID header")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "jane" {
			t.Errorf("username = %q", body["username"])
		}
		ok(t, w, model.User{Name: "jane", Role: "Credit Officer", Level: 1})
	})

	u, err := c.Login(context.Background(), "jane", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Role != "Credit Officer" || u.Level != 1 {
		t.Errorf("user = %+v", u)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(envelope{Status: "ERROR", Message: "bad password"})
	})

	_, err := c.Login(context.Background(), "jane", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGetApplications(t *testing.T) {
	amount := 1234.5
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "PENDING" {
			t.Errorf("status = %q", body["status"])
		}
		ok(t, w, []model.ApplicationSummary{
			{AppNumber: "LA-001", ApplicantName: "Jane Doe", Amount: &amount},
		})
	})

	apps, err := c.GetApplications(context.Background(), model.StatusPending)
	if err != nil {
		t.Fatalf("GetApplications: %v", err)
	}
	if len(apps) != 1 || apps[0].AppNumber != "LA-001" {
		t.Errorf("apps = %+v", apps)
	}
}

func TestSubmitApplicationComment_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope{Status: statusConflict, Message: "stage moved to Compliance"})
	})

	err := c.SubmitApplicationComment(context.Background(), SubmitRequest{
		AppNumber: "LA-001",
		Action:    "SUBMIT",
		Stage:     "Assessment",
		Field:     "creditOfficerComment",
		Comment:   "looks fine",
		Actor:     "jane",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestSubmitApplicationComment_HTTPConflictStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(envelope{Status: "ERROR", Message: "stale stage"})
	})

	err := c.SubmitApplicationComment(context.Background(), SubmitRequest{AppNumber: "LA-001"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestGetApplicationDetails_CarriesActor(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["appNumber"] != "LA-001" || body["actorName"] != "jane" {
			t.Errorf("body = %+v", body)
		}
		ok(t, w, model.ApplicationDetail{AppNumber: "LA-001", Status: "PENDING"})
	})

	d, err := c.GetApplicationDetails(context.Background(), "LA-001", "jane")
	if err != nil {
		t.Fatalf("GetApplicationDetails: %v", err)
	}
	if d.AppNumber != "LA-001" {
		t.Errorf("detail = %+v", d)
	}
}

func TestAddUser_SendsDefaultLevel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["role"] != "Head of Credit" {
			t.Errorf("role = %v", body["role"])
		}
		// JSON numbers decode as float64.
		if body["level"] != float64(model.LevelForRole("Head of Credit")) {
			t.Errorf("level = %v", body["level"])
		}
		ok(t, w, struct{}{})
	})

	if err := c.AddUser(context.Background(), "sam", "Head of Credit", "secret"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
}

func TestGetApplicationCountsForUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ok(t, w, map[string]int{"count": 117})
	})

	n, err := c.GetApplicationCountsForUser(context.Background(), "Approver")
	if err != nil {
		t.Fatalf("GetApplicationCountsForUser: %v", err)
	}
	if n != 117 {
		t.Errorf("count = %d", n)
	}
}

func TestServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(envelope{Status: "ERROR", Code: "DB_DOWN", Message: "storage unavailable"})
	})

	_, err := c.GetApplicationCounts(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != "DB_DOWN" || !apiErr.IsRetryable() {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestEnvelopeErrorWithHTTP200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope{Status: "ERROR", Message: "unknown application"})
	})

	_, err := c.GetApplicationDetails(context.Background(), "LA-404", "jane")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "unknown application" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
