package pcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arbor/internal/config"
	"arbor/internal/logging"
	"arbor/internal/services"
)

// HTTPDoer describes the HTTP client used by the storage client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a session-scoped handle on the storage account. A client is
// obtained by Connect and must be released with Logout; the ingest pipeline
// assumes exclusive use of the session for the duration of a run.
type Client struct {
	baseURL string
	auth    string
	client  HTTPDoer
	logger  *slog.Logger
}

// Options bundles the connection parameters for Connect.
type Options struct {
	BaseURL  string
	Username string
	Password string
	// HTTPClient may be nil; a client with a 60s timeout is used then.
	HTTPClient HTTPDoer
}

// OptionsFromConfig derives connection options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:  cfg.Pcloud.BaseURL,
		Username: cfg.Pcloud.Username,
		Password: cfg.Pcloud.Password,
	}
}

// Connect authenticates against the storage account and returns a
// session-scoped client. Any non-success response fails the connection.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	logger = logging.WithComponent(logger, "pcloud")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/") + "/",
		client:  httpClient,
		logger:  logger,
	}

	params := url.Values{}
	params.Set("username", opts.Username)
	params.Set("password", opts.Password)
	params.Set("getauth", "1")

	var res userinfoResult
	if err := c.getJSON(ctx, "userinfo", params, &res); err != nil {
		return nil, err
	}
	c.auth = res.Auth

	if res.Quota > 0 {
		pct := float64(res.UsedQuota) / float64(res.Quota) * 100
		logger.Info("connected to storage account",
			logging.String("used", fmt.Sprintf("%.2f%%", pct)))
	}
	return c, nil
}

// Logout closes the session. A failed logout is logged, not fatal; the
// session expires server-side regardless.
func (c *Client) Logout(ctx context.Context) error {
	params := url.Values{}
	params.Set("auth", c.auth)

	var res logoutResult
	if err := c.getJSON(ctx, "logout", params, &res); err != nil {
		c.logger.Error("logout failed", logging.Error(err))
		return err
	}
	if !res.AuthDeleted {
		c.logger.Warn("logout did not delete the session token")
		return nil
	}
	c.logger.Info("logged out of storage account")
	return nil
}

// getJSON performs a GET against the named endpoint and decodes the JSON
// envelope into out, surfacing HTTP and remote result failures as ErrRemote.
func (c *Client) getJSON(ctx context.Context, method string, params url.Values, out resultEnvelope) error {
	if c.auth != "" {
		params.Set("auth", c.auth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+method+"?"+params.Encode(), nil)
	if err != nil {
		return services.Wrap(services.ErrRemote, "pcloud", method, "build request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrRemote, "pcloud", method, "request failed", err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(method, resp, out)
}
