package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
)

type fakeAuth map[string]*models.User

func (f fakeAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "expired" {
		return nil, apierr.Unauthorized("Token expired")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apierr.Unauthorized("Invalid token")
}

func TestJWTMiddleware(t *testing.T) {
	ada := &models.User{ID: "u1", Username: "ada"}
	protected := JWTMiddleware(fakeAuth{"good": ada}, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			t.Errorf("user missing from context")
			return
		}
		_, _ = w.Write([]byte(u.ID))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantDetail string
	}{
		{"valid", "Bearer good", http.StatusOK, "u1", ""},
		{"lower-case scheme", "bearer good", http.StatusOK, "u1", ""},
		{"missing header", "", http.StatusUnauthorized, "", "Not authenticated"},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, "", "Not authenticated"},
		{"empty token", "Bearer   ", http.StatusUnauthorized, "", "Not authenticated"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "", "Token expired"},
		{"unknown", "Bearer nope", http.StatusUnauthorized, "", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/upload-history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantDetail == "" {
				if rec.Body.String() != tt.wantBody {
					t.Fatalf("body: got %q", rec.Body.String())
				}
				return
			}
			var body struct {
				Detail string `json:"detail"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Detail != tt.wantDetail {
				t.Fatalf("detail: got %q want %q", body.Detail, tt.wantDetail)
			}
		})
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	h := middleware.RequestID(RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}
