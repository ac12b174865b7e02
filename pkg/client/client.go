// Package client is a Go client for the Athlos REST API.
//
// Every request carries the session's access token as a bearer token. When
// the backend answers 401 the client exchanges the refresh token for a new
// access token and replays the request once. If that exchange is not
// possible the session is cleared and the Navigator is sent to /login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

// DefaultBaseURL points at a locally running API server.
const DefaultBaseURL = "http://localhost:8080/api"

// refreshTimeout bounds a shared refresh, which outlives the caller that
// started it.
const refreshTimeout = 15 * time.Second

const (
	loginPath   = "/auth/login/"
	refreshPath = "/auth/refresh/"
	mePath      = "/auth/me/"
)

var errNoRefreshToken = errors.New("no refresh token")

// Client talks to one Athlos backend on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	nav        Navigator
	log        *zap.Logger
	refreshes  singleflight.Group

	Academias  *AcademiaService
	Alunos     *AlunoService
	Personais  *PersonalService
	Treinos    *TreinoService
	Exercicios *ExercicioService
	Dashboard  *DashboardService
	Relatorios *RelatorioService
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     NewMemoryStore(),
		nav:        noopNavigator{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Academias = &AcademiaService{c: c}
	c.Alunos = &AlunoService{c: c}
	c.Personais = &PersonalService{c: c}
	c.Treinos = &TreinoService{c: c}
	c.Exercicios = &ExercicioService{c: c}
	c.Dashboard = &DashboardService{c: c}
	c.Relatorios = &RelatorioService{c: c}
	return c
}

// Tokens exposes the session's token store.
func (c *Client) Tokens() TokenStore { return c.tokens }

// Authenticated reports whether the session holds an access token.
func (c *Client) Authenticated() bool {
	return c.tokens.AccessToken() != ""
}

// do performs an authorized JSON request. in and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	sent := c.tokens.AccessToken()
	status, resp, err := c.send(ctx, method, path, query, body, sent)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		access, rerr := c.accessAfter(ctx, sent)
		if rerr != nil {
			if errors.Is(rerr, context.Canceled) || errors.Is(rerr, context.DeadlineExceeded) {
				return rerr
			}
			c.log.Info("session expired", zap.String("path", path), zap.Error(rerr))
			c.expireSession()
			return newError(status, resp)
		}

		// the replay is final: a second 401 is returned to the caller as is
		status, resp, err = c.send(ctx, method, path, query, body, access)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return newError(status, resp)
	}
	if out != nil && len(resp) > 0 {
		if err := json.Unmarshal(resp, out); err != nil {
			return errors.Wrapf(err, "decode %s %s", method, path)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, access string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response")
	}
	return res.StatusCode, buf, nil
}

// accessAfter returns the token to replay a request that was rejected with
// sent. A token stored since then by another caller's refresh is reused.
func (c *Client) accessAfter(ctx context.Context, sent string) (string, error) {
	if cur := c.tokens.AccessToken(); cur != "" && cur != sent {
		return cur, nil
	}
	return c.refresh(ctx)
}

// refresh swaps the refresh token for a new access token. Concurrent
// callers share a single round trip, which outlives ctx. ctx only bounds
// how long this caller waits for it.
func (c *Client) refresh(ctx context.Context) (string, error) {
	ch := c.refreshes.DoChan("refresh", func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		rt := c.tokens.RefreshToken()
		if rt == "" {
			return "", errNoRefreshToken
		}

		body, err := json.Marshal(api.RefreshRequest{Refresh: rt})
		if err != nil {
			return "", err
		}
		status, resp, err := c.send(rctx, http.MethodPost, refreshPath, nil, body, "")
		if err != nil {
			return "", err
		}
		if status < 200 || status > 299 {
			return "", newError(status, resp)
		}

		var rr api.RefreshResponse
		if err := json.Unmarshal(resp, &rr); err != nil {
			return "", errors.Wrap(err, "decode refresh response")
		}
		if rr.Access == "" {
			return "", errors.New("refresh response without access token")
		}

		c.tokens.SetAccessToken(rr.Access)
		c.log.Debug("access token refreshed")
		return rr.Access, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) expireSession() {
	c.tokens.Clear()
	c.nav.Navigate(api.RouteLogin)
}
