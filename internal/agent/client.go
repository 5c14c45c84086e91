package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/niposch/wake-on-lan-web/internal/config"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

var ErrAgentFailed = errors.New("agent request failed")

// Client talks to the companion shutdown agent running on managed hosts.
// A non-2xx status, refused connection or timeout is a failure and is
// never retried here; repeat attempts are operator-initiated.
type Client struct {
	http   *http.Client
	port   int
	secret string
}

func New(conf config.AgentConfig) *Client {
	return &Client{
		http:   &http.Client{Timeout: conf.Timeout},
		port:   conf.Port,
		secret: conf.Secret,
	}
}

// Shutdown asks the agent on the given host to power the OS down. The
// shared secret travels as a bearer credential; the response body is
// ignored, status alone decides success.
func (c *Client) Shutdown(ctx context.Context, ip string) error {
	const op = "agent.Shutdown.client"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	url := fmt.Sprintf(
		"http://%s/shutdown",
		net.JoinHostPort(ip, strconv.Itoa(c.port)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Error(
			"failed to reach shutdown agent",
			zap.String("op", op),
			zap.String("url", url),
			zap.Error(err),
		)

		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Warn(
			"shutdown agent returned error",
			zap.String("op", op),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)

		return fmt.Errorf("%w: status %d", ErrAgentFailed, resp.StatusCode)
	}

	return nil
}
