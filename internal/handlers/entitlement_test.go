package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubEntitlementService struct {
	active      bool
	invalidated []string
}

func (s *stubEntitlementService) HasActiveSubscription(context.Context, string) (bool, error) {
	return s.active, nil
}

func (s *stubEntitlementService) Invalidate(_ context.Context, userID string) {
	s.invalidated = append(s.invalidated, userID)
}

func TestInvalidateCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubEntitlementService{}
	h := NewEntitlementHandler(handlerTestLogger(t), svc)

	r := gin.New()
	r.DELETE("/admin/entitlements/:user_id/cache", h.InvalidateCache)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/entitlements/user-42/cache", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if len(svc.invalidated) != 1 || svc.invalidated[0] != "user-42" {
		t.Fatalf("invalidated=%v, want [user-42]", svc.invalidated)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["invalidated"] != true || body["user_id"] != "user-42" {
		t.Fatalf("body=%v", body)
	}
}
