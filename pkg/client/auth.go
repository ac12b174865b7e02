package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

// Session is the outcome of a successful login.
type Session struct {
	User  api.User
	Route string
}

// Login exchanges credentials for a token pair, resolves the user and
// navigates to the user's landing route. The login call itself never goes
// through the refresh protocol: a 401 here means bad credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "encode credentials")
	}

	status, resp, err := c.send(ctx, http.MethodPost, loginPath, nil, body, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newError(status, resp)
	}

	var lr api.LoginResponse
	if err := json.Unmarshal(resp, &lr); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}
	if lr.Access == "" {
		return nil, errors.New("login response without access token")
	}
	c.tokens.SetTokens(lr.Access, lr.Refresh)

	var user api.User
	if lr.User != nil {
		user = *lr.User
	} else {
		me, err := c.Me(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetch current user")
		}
		user = me.Compact()
	}

	route := api.LandingRoute(user.UserType)
	c.nav.Navigate(route)
	return &Session{User: user, Route: route}, nil
}

// Me returns the user the session belongs to.
func (c *Client) Me(ctx context.Context) (*api.UserDetail, error) {
	var u api.UserDetail
	if err := c.do(ctx, http.MethodGet, mePath, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout forgets both tokens and navigates to the login page.
func (c *Client) Logout() {
	c.tokens.Clear()
	c.nav.Navigate(api.RouteLogin)
}
