package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	appControllers "github.com/examdesk/examdesk/internal/app/controllers"
	"github.com/examdesk/examdesk/internal/config"
	appMiddleware "github.com/examdesk/examdesk/internal/middleware"
	pkgAuth "github.com/examdesk/examdesk/internal/pkg/auth"
)

func newTestRouter(t *testing.T, deps *Dependencies) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "production"

	return SetupRouter(cfg, deps, zerolog.Nop())
}

func TestHealthzReportsDatabaseDown(t *testing.T) {
	lgr := zerolog.Nop()
	deps := &Dependencies{
		AuthController:     appControllers.NewAuthController(nil, lgr),
		ExamUserController: appControllers.NewExamUserController(nil, lgr),
		AuthMiddleware:     appMiddleware.NewAuthMiddleware(pkgAuth.NewJWTService(pkgAuth.JWTConfig{SecretKey: "test-secret"})),
		Logger:             lgr,
	}

	router := newTestRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body struct {
		DB    bool `json:"db"`
		Redis bool `json:"redis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.DB {
		t.Errorf("db reported healthy without a reachable database")
	}
	if body.Redis {
		t.Errorf("redis reported healthy without a reachable instance")
	}
}
