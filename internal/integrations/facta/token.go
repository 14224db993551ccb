package facta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/clt-simulator/internal/config"
	"github.com/Dan9191/clt-simulator/internal/metrics"
	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const endpointToken = "gera-token"

// TokenProvider obtains and caches the bearer token used by every other call
type TokenProvider struct {
	url       string
	login     string
	password  string
	userAgent string
	ttl       time.Duration
	client    *http.Client
	log       *logrus.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu    sync.Mutex
	cred  *models.Credential
	group singleflight.Group
}

// NewTokenProvider initializes a token provider for the configured account
func NewTokenProvider(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) *TokenProvider {
	return &TokenProvider{
		url:       strings.TrimRight(cfg.FactaURL, "/") + "/" + endpointToken,
		login:     cfg.FactaLogin,
		password:  cfg.FactaPassword,
		userAgent: cfg.UserAgent,
		ttl:       cfg.TokenTTL,
		client: &http.Client{
			Timeout: cfg.FactaTimeout,
		},
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

type tokenResponse struct {
	envelope
	Token string `json:"token"`
}

// Token returns the cached token while it is valid and fetches a new one otherwise.
// Concurrent callers share a single refresh.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if tok, ok := p.validFor(0); ok {
		p.log.Debug("Using cached Facta token")
		return tok, nil
	}
	return p.renew(ctx, 0)
}

// Refresh renews the credential when it is missing or expires within d.
// A failed renewal keeps the current credential until it expires.
func (p *TokenProvider) Refresh(ctx context.Context, d time.Duration) error {
	if _, ok := p.validFor(d); ok {
		return nil
	}
	_, err := p.renew(ctx, d)
	return err
}

// renew fetches a credential through the singleflight group and replaces
// the cached one only on success. The fetch is detached from the caller's
// cancellation since concurrent callers share it; the client timeout bounds it.
func (p *TokenProvider) renew(ctx context.Context, d time.Duration) (string, error) {
	v, err, _ := p.group.Do(endpointToken, func() (interface{}, error) {
		if tok, ok := p.validFor(d); ok {
			return tok, nil
		}
		cred, err := p.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}

		p.mu.Lock()
		p.cred = cred
		p.mu.Unlock()
		return cred.Token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached credential so the next call re-authenticates
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.cred = nil
	p.mu.Unlock()
}

// ExpiresAt returns the expiry of the cached credential, or the zero time
func (p *TokenProvider) ExpiresAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cred == nil {
		return time.Time{}
	}
	return p.cred.ExpiresAt
}

// validFor returns the cached token if it stays valid for at least d
func (p *TokenProvider) validFor(d time.Duration) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cred.Valid(p.now().Add(d)) {
		return p.cred.Token, true
	}
	return "", false
}

func (p *TokenProvider) fetch(ctx context.Context) (cred *models.Credential, err error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveUpstreamCall(endpointToken, outcome(err), time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, newError(AuthFailure, endpointToken, "failed to create request", err)
	}
	req.SetBasicAuth(p.login, p.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	p.log.Info("Requesting Facta token")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, newError(AuthFailure, endpointToken, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(AuthFailure, endpointToken, "failed to read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(AuthFailure, endpointToken, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var data tokenResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newError(AuthFailure, endpointToken, "malformed token response", err)
	}
	if data.failed() || data.Token == "" {
		return nil, newError(AuthFailure, endpointToken, data.Mensagem, nil)
	}

	issued := p.now()
	expires := issued.Add(p.ttl)
	if exp, ok := tokenExpiry(data.Token); ok && exp.Before(expires) {
		expires = exp
	}

	p.log.WithField("expires_at", expires.Format(time.RFC3339)).Info("Facta token issued")
	return &models.Credential{Token: data.Token, ExpiresAt: expires}, nil
}

// tokenExpiry reads the exp claim when the token happens to be a JWT.
// The signature is not checked; the token is opaque to us.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if c := CategoryOf(err); c != "" {
		return string(c)
	}
	return "error"
}
