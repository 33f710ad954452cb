package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/staffing-platform/internal/config"
	"github.com/talentbridge/staffing-platform/internal/model"
	"github.com/talentbridge/staffing-platform/internal/utils"
)

func rateCtx(t *testing.T, bearer string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/jobs")
	return c
}

// The limiter is mounted before JWTAuth, so the account component of the
// bucket key must come from the bearer token itself, not the context.
func TestBuildRateKeyResolvesAccountFromBearer(t *testing.T) {
	const secret = "rate-test-secret"
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	at, err := utils.NewAccessToken(secret, 42, model.RoleJobSeeker, 15)
	require.NoError(t, err)

	key := buildRateKey(cfg, rateCtx(t, at.Token), secret)
	assert.Contains(t, key, ":user:42:")
}

func TestBuildRateKeyAnonWithoutToken(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	key := buildRateKey(cfg, rateCtx(t, ""), "rate-test-secret")
	assert.Contains(t, key, ":user:anon:")
}

func TestBuildRateKeyStrategies(t *testing.T) {
	c := rateCtx(t, "")
	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:"},
		{"route", "rl:route:GET /v1/jobs"},
		{"user", "rl:user:anon"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Contains(t, buildRateKey(cfg, c, "s"), tt.want)
		})
	}
}
