package facta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dan9191/clt-simulator/internal/config"
	"github.com/Dan9191/clt-simulator/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Client handles integration with the Facta credit-origination API
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	tokens    *TokenProvider
	log       *logrus.Logger
	metrics   *metrics.Metrics
}

// NewClient initializes a new Facta client. Every call obtains its bearer
// token from tokens.
func NewClient(cfg *config.Config, tokens *TokenProvider, log *logrus.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.FactaURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.FactaTimeout,
		},
		tokens:  tokens,
		log:     log,
		metrics: m,
	}
}

// envelope is the error flag every endpoint carries
type envelope struct {
	Erro     *bool  `json:"erro"`
	Mensagem string `json:"mensagem"`
}

// failed reports an upstream error. Only an explicit "erro": false counts
// as success.
func (e envelope) failed() bool {
	return e.Erro == nil || *e.Erro
}

// get sends an authenticated GET and returns the raw body of a 2xx response
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, newError(TransportFailure, endpoint, "failed to create request", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(TransportFailure, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(TransportFailure, endpoint, "failed to read response", err)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
	}).Debugf("Facta response: %s", string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(TransportFailure, endpoint, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}
	return body, nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	c.metrics.ObserveUpstreamCall(endpoint, outcome(err), time.Since(start))
}
