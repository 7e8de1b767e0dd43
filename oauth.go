package plurk

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	// Packages
	oauth1 "github.com/dghubble/oauth1"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// VerifierFunc is called with the authorization URL the user must visit,
// and returns the verification code the provider hands back to them
type VerifierFunc func(ctx context.Context, authURL string) (string, error)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Authorize performs the three-legged OAuth handshake: obtain a request
// token, have the user visit the authorization URL, then exchange the
// verifier for an access token. The verifier is obtained through the
// supplied callback. On success the access token pair is stored in the
// credential and used to sign subsequent calls
func (c *Client) Authorize(ctx context.Context, verifier VerifierFunc) error {
	if verifier == nil {
		return ErrBadParameter.With("missing verifier callback")
	}
	if err := c.RequestToken(ctx); err != nil {
		return err
	}
	authURL, err := c.AuthorizationURL()
	if err != nil {
		return err
	}
	code, err := verifier(ctx, authURL)
	if err != nil {
		return err
	} else if code == "" {
		return ErrHandshake.With("empty verification code")
	}
	return c.AccessToken(ctx, code)
}

// AuthorizeWithToken installs a previously obtained access token pair
// without performing the handshake
func (c *Client) AuthorizeWithToken(token, secret string) error {
	if token == "" || secret == "" {
		return ErrBadParameter.With("missing access token or secret")
	}
	c.install(token, secret)
	c.state = Authorized
	return nil
}

// RequestToken obtains temporary credentials, signed with the consumer
// credentials only. Any previously held access token pair is discarded
func (c *Client) RequestToken(ctx context.Context) error {
	return c.requestTokenWithConfig(ctx, c.config)
}

// AuthorizationURL returns the URL the user must visit to authorize the
// application. A request token must have been obtained first
func (c *Client) AuthorizationURL() (string, error) {
	if c.state != RequestTokenObtained {
		return "", ErrOutOfOrder.With("request a token first")
	}
	url, err := c.config.AuthorizationURL(c.requestToken)
	if err != nil {
		return "", ErrHandshake.With(err)
	}
	return url.String(), nil
}

// AccessToken exchanges the request token and verifier for an access
// token pair, which is stored in the credential
func (c *Client) AccessToken(ctx context.Context, verifier string) error {
	if c.state != RequestTokenObtained {
		return ErrOutOfOrder.With("request a token first")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	accessToken, accessSecret, err := c.config.AccessToken(c.requestToken, c.requestSecret, verifier)
	if err != nil {
		return ErrHandshake.With(err)
	}

	// Install the signing transport for the new token pair
	c.install(accessToken, accessSecret)
	c.state = Authorized
	c.requestToken = ""
	c.requestSecret = ""

	// Return success
	return nil
}

// AuthorizeWithCallback performs the handshake using a loopback HTTP
// listener to receive the verifier, instead of prompting for it. The
// display callback is invoked with the authorization URL to present to
// the user. If addr is empty a random port on localhost is used
func (c *Client) AuthorizeWithCallback(ctx context.Context, addr string, display func(authURL string)) error {
	listener, callbackURL, err := NewCallbackListener(addr)
	if err != nil {
		return err
	}
	defer listener.Close()

	// The callback URL is included in the request-token step. A copy of
	// the configuration is used so the shared one is never mutated
	config := *c.config
	config.CallbackURL = callbackURL
	if err := c.requestTokenWithConfig(ctx, &config); err != nil {
		return err
	}
	authURL, err := c.AuthorizationURL()
	if err != nil {
		return err
	}
	if display != nil {
		display(authURL)
	}

	verifier, err := c.waitForVerifier(ctx, listener)
	if err != nil {
		return err
	}
	return c.AccessToken(ctx, verifier)
}

// NewCallbackListener creates a TCP listener for the authorization
// callback and returns it together with the callback URL. Only loopback
// addresses are allowed
func NewCallbackListener(addr string) (net.Listener, string, error) {
	if addr == "" {
		addr = "localhost:0"
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, "", ErrBadParameter.Withf("invalid callback address %q: %v", addr, err)
	}
	if !isLoopback(host) {
		return nil, "", ErrBadParameter.Withf("callback address must be loopback, got %q", host)
	}
	if port == "" {
		return nil, "", ErrBadParameter.Withf("callback address %q missing port", addr)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", err
	}
	return listener, fmt.Sprintf("http://%s/callback", listener.Addr().String()), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// requestTokenWithConfig obtains temporary credentials using the given
// oauth1 configuration, which may carry a callback URL
func (c *Client) requestTokenWithConfig(ctx context.Context, config *oauth1.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// A new handshake always starts from scratch
	c.install("", "")
	c.state = Unauthenticated

	requestToken, requestSecret, err := config.RequestToken()
	if err != nil {
		return ErrHandshake.With(err)
	}
	c.requestToken = requestToken
	c.requestSecret = requestSecret
	c.state = RequestTokenObtained

	// Return success
	return nil
}

// verifierResult holds the result from the callback handler
type verifierResult struct {
	verifier string
	err      error
}

// waitForVerifier serves the callback endpoint on the given listener
// until the provider redirects the user back with a verifier, or the
// context is cancelled
func (c *Client) waitForVerifier(ctx context.Context, listener net.Listener) (string, error) {
	resultCh := make(chan verifierResult, 1)
	var once sync.Once

	// sendResult delivers a result exactly once so that duplicate
	// callbacks cannot block handler goroutines
	sendResult := func(r verifierResult) {
		once.Do(func() {
			resultCh <- r
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		requestToken, verifier, err := oauth1.ParseAuthorizationCallback(r)
		if err != nil {
			sendResult(verifierResult{err: ErrHandshake.With(err)})
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
			return
		}
		if requestToken != c.requestToken {
			sendResult(verifierResult{err: ErrHandshake.With("request token mismatch")})
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("request token mismatch"))
			return
		}
		sendResult(verifierResult{verifier: verifier})
		_ = httpresponse.JSON(w, http.StatusOK, 0, map[string]string{
			"status":  "success",
			"message": "Authorization complete. You can close this window.",
		})
	})

	server := &http.Server{Handler: mux}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendResult(verifierResult{err: ErrTransport.With(err)})
		}
	}()

	// Wait for the callback or cancellation
	var result verifierResult
	select {
	case <-ctx.Done():
		result = verifierResult{err: ctx.Err()}
	case result = <-resultCh:
	}

	// Shutdown the server and wait for the goroutine to complete
	_ = server.Shutdown(context.Background())
	wg.Wait()

	if result.err != nil {
		return "", result.err
	}
	return result.verifier, nil
}

// isLoopback returns true if the host is a loopback address
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
