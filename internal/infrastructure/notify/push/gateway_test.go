package push

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/resilience"
)

func TestGatewayCreate_PublishesEnvelope(t *testing.T) {
	var gotAuth string
	var gotBody pushEnvelope

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/push", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	gw := NewGateway(GatewayConfig{
		BaseURL: srv.URL,
		APIKey:  "push-key",
		Timeout: 2 * time.Second,
	}, logging.NewNop())

	err := gw.Create(t.Context(), "user-captain-garuda", notification.KindScoreConfirmed, map[string]any{
		"match_id": "match-public-001",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer push-key", gotAuth)
	require.Equal(t, "user-captain-garuda", gotBody.UserID)
	require.Equal(t, string(notification.KindScoreConfirmed), gotBody.Kind)
	require.Equal(t, "match-public-001", gotBody.Payload["match_id"])
}

func TestGatewayCreate_NonRetryableStatusIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	gw := NewGateway(GatewayConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logging.NewNop())

	err := gw.Create(t.Context(), "user-1", notification.KindMotmWinner, nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, errPushTransient)
}

func TestGatewayCreate_BreakerOpensOnRepeatedServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewGateway(GatewayConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	ctx := t.Context()
	require.Error(t, gw.Create(ctx, "user-1", notification.KindJoinApproved, nil))
	require.Error(t, gw.Create(ctx, "user-2", notification.KindJoinApproved, nil))

	err := gw.Create(ctx, "user-3", notification.KindJoinApproved, nil)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.EqualValues(t, 2, calls.Load())
}
