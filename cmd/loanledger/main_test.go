package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-ledger/config"
	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"
	"loan-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLG_STORE_DRIVER", "memory")
	t.Setenv("LLG_JWT_SECRET", "cli-test-secret")
	t.Setenv("LLG_LEDGER_TIMEZONE", "UTC")
	t.Setenv("LLG_SERVER_MODE", gin.TestMode)
}

func TestTokenCmd_MintsVerifiableToken(t *testing.T) {
	memoryEnv(t)

	out, err := run(t, "token", "--member", "S-01", "--email", "ops@coop.example", "--role", "staff")
	require.NoError(t, err)

	tokens := service.NewJWTTokenService("cli-test-secret", time.Hour, "loan-ledger")
	mc, err := tokens.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "S-01", mc.MemberID)
	assert.Equal(t, "ops@coop.example", mc.Email)
	assert.Equal(t, domain.RoleStaff, mc.Role)
}

func TestTokenCmd_Rejects(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		memoryEnv(t)
		_, err := run(t, "token", "--member", "M-1", "--role", "admin")
		assert.ErrorContains(t, err, "unknown role")
	})
	t.Run("missing member", func(t *testing.T) {
		memoryEnv(t)
		_, err := run(t, "token")
		assert.Error(t, err)
	})
	t.Run("no secret", func(t *testing.T) {
		memoryEnv(t)
		t.Setenv("LLG_JWT_SECRET", "")
		_, err := run(t, "token", "--member", "M-1")
		assert.ErrorContains(t, err, "jwt.secret")
	})
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	memoryEnv(t)
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "store.driver=postgres")
}

func TestReconcileCmd_MemoryStoreReportsNothingToDo(t *testing.T) {
	memoryEnv(t)

	out, err := run(t, "reconcile", "--limit", "10")
	require.NoError(t, err)

	var report ports.ReconcileReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0, report.Scanned)
	assert.Equal(t, 0, report.Completed)
	assert.Empty(t, report.Failed)
}

func TestNewApp_MemoryWiring(t *testing.T) {
	memoryEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.memStore)
	assert.Nil(t, a.rateLimit)
	assert.Empty(t, a.healthCheckers)

	require.NoError(t, a.seedFunds("25000.50"))
	funds, err := a.reporting.FundsPool(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25000.50").Equal(funds))

	assert.Error(t, a.seedFunds("lots"))

	router := a.router("")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/console/funds", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewNotificationHandler_Validation(t *testing.T) {
	_, err := newNotificationHandler(config.NotificationConfig{}, zerolog.Nop())
	assert.ErrorContains(t, err, "enabled")

	_, err = newNotificationHandler(config.NotificationConfig{Enabled: true}, zerolog.Nop())
	assert.ErrorContains(t, err, "webhook_url")

	h, err := newNotificationHandler(config.NotificationConfig{
		Enabled:    true,
		WebhookURL: "https://hooks.example.com/ledger",
		Secret:     "whsec",
		Timeout:    time.Second,
		MaxElapsed: time.Minute,
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, h)
}
