package push

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/resilience"
)

var errPushTransient = crerr.New("push gateway transient failure")

type GatewayConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Gateway pushes typed events to the mobile push relay. It satisfies
// notification.Sink, so failures here only cost the push, never the
// business operation or the in-app feed entry.
type Gateway struct {
	client         *fasthttp.Client
	publishURL     string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	timeout        time.Duration
}

func NewGateway(cfg GatewayConfig, logger *logging.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Gateway{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		publishURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/v1/push",
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		timeout:        timeout,
	}
}

type pushEnvelope struct {
	UserID  string         `json:"user_id"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (g *Gateway) Create(ctx context.Context, userID string, kind notification.Kind, payload map[string]any) error {
	if g.circuitEnabled {
		if err := g.breaker.Allow(); err != nil {
			g.logger.WarnContext(ctx, "push circuit breaker rejected request", "state", g.breaker.State())
			return fmt.Errorf("push gateway is temporarily unavailable: %w", err)
		}
	}

	body, err := sonic.Marshal(pushEnvelope{
		UserID:  userID,
		Kind:    string(kind),
		Payload: payload,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal push envelope")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.publishURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	req.SetBody(body)

	deadline := time.Now().Add(g.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := g.client.DoDeadline(req, resp, deadline); err != nil {
		callErr := fmt.Errorf("%w: publish push user_id=%s kind=%s: %v", errPushTransient, userID, kind, err)
		g.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := truncateForLog(string(resp.Body()), 4096)
		if isRetryableStatus(status) {
			callErr := fmt.Errorf("%w: publish push status=%d user_id=%s kind=%s body=%s", errPushTransient, status, userID, kind, raw)
			g.recordCircuitResult(callErr)
			return callErr
		}

		callErr := crerr.Newf("publish push status=%d user_id=%s kind=%s body=%s", status, userID, kind, raw)
		g.recordCircuitResult(callErr)
		return callErr
	}

	g.logger.DebugContext(ctx, "push published",
		"user_id", userID,
		"kind", string(kind),
		"request_preview", buildPushCurlPreview(g.publishURL, truncateForLog(string(body), 1024)),
	)
	g.recordCircuitResult(nil)
	return nil
}

func (g *Gateway) recordCircuitResult(err error) {
	if !g.circuitEnabled || g.breaker == nil {
		return
	}
	if err == nil {
		g.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errPushTransient) {
		g.breaker.RecordFailure()
		return
	}
	g.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func buildPushCurlPreview(publishURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
