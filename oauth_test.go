package plurk_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	plurk "github.com/mutablelogic/go-plurk"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_oauth_001(t *testing.T) {
	// Full handshake: Unauthenticated -> RequestTokenObtained -> Authorized
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)
	assert.Equal(plurk.Unauthenticated, client.State())
	assert.False(client.IsAuthorized())

	var authURL string
	err = client.Authorize(t.Context(), func(ctx context.Context, url string) (string, error) {
		authURL = url
		return "verifier-123", nil
	})
	assert.NoError(err)

	// The authorization URL carries the request token
	assert.Contains(authURL, "/OAuth/authorize")
	assert.Contains(authURL, "oauth_token=req-token")

	// The access token pair is populated exactly once
	assert.True(client.IsAuthorized())
	assert.Equal(plurk.Authorized, client.State())
	assert.Equal("access-token", client.Credential().Token)
	assert.Equal("access-secret", client.Credential().TokenSecret)
	assert.Equal(1, server.RequestTokenCount())
	assert.Equal(1, server.AccessTokenCount())
	assert.Equal("verifier-123", server.Verifier())
}

func Test_oauth_002(t *testing.T) {
	// A failing request-token step leaves the client unauthorized
	assert := assert.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_text": "40101:unknown application key"}`, http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)

	err = client.Authorize(t.Context(), func(ctx context.Context, url string) (string, error) {
		t.Fatal("verifier callback should not be reached")
		return "", nil
	})
	assert.Error(err)
	assert.False(client.IsAuthorized())
	assert.Equal(plurk.Unauthenticated, client.State())
}

func Test_oauth_003(t *testing.T) {
	// Steps out of order are rejected
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)

	_, err = client.AuthorizationURL()
	assert.ErrorIs(err, plurk.ErrOutOfOrder)

	err = client.AccessToken(t.Context(), "verifier-123")
	assert.ErrorIs(err, plurk.ErrOutOfOrder)
	assert.Equal(0, server.AccessTokenCount())
}

func Test_oauth_004(t *testing.T) {
	// A stored token pair is installed without any network traffic
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)

	err = client.AuthorizeWithToken("stored-token", "stored-secret")
	assert.NoError(err)
	assert.True(client.IsAuthorized())
	assert.Equal("stored-token", client.Credential().Token)
	assert.Equal(0, server.RequestTokenCount())
	assert.Equal(0, server.AccessTokenCount())

	// An empty pair is misuse
	assert.ErrorIs(client.AuthorizeWithToken("", ""), plurk.ErrBadParameter)
}

func Test_oauth_005(t *testing.T) {
	// A second handshake replaces the token pair
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)
	assert.NoError(client.AuthorizeWithToken("stale-token", "stale-secret"))

	err = client.Authorize(t.Context(), func(ctx context.Context, url string) (string, error) {
		return "verifier-123", nil
	})
	assert.NoError(err)
	assert.Equal("access-token", client.Credential().Token)
}

func Test_oauth_006(t *testing.T) {
	// Handshake with a loopback callback listener for the verifier
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)

	authCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- client.AuthorizeWithCallback(t.Context(), "127.0.0.1:0", func(authURL string) {
			authCh <- authURL
		})
	}()

	select {
	case authURL := <-authCh:
		assert.Contains(authURL, "oauth_token=req-token")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for authorization URL")
	}

	// Simulate the provider redirecting the user back
	callbackURL := server.CallbackURL()
	assert.True(strings.HasPrefix(callbackURL, "http://127.0.0.1:"))
	resp, err := http.Get(callbackURL + "?oauth_token=req-token&oauth_verifier=verifier-456")
	assert.NoError(err)
	if resp != nil {
		assert.Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handshake")
	}
	assert.True(client.IsAuthorized())
	assert.Equal("verifier-456", server.Verifier())

	// A later plain handshake does not carry the callback URL
	assert.NoError(client.RequestToken(t.Context()))
	assert.Equal("", server.CallbackURL())
}

func Test_oauth_007(t *testing.T) {
	// Cancelling the context aborts the callback wait
	assert := assert.New(t)
	server := newMockServer(t, "", nil)

	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	assert.NoError(err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- client.AuthorizeWithCallback(ctx, "", func(string) {
			cancel()
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cancellation")
	}
	assert.False(client.IsAuthorized())
}

func Test_oauth_008(t *testing.T) {
	// Callback listeners are restricted to loopback addresses
	assert := assert.New(t)

	_, _, err := plurk.NewCallbackListener("0.0.0.0:8080")
	assert.ErrorIs(err, plurk.ErrBadParameter)

	listener, callbackURL, err := plurk.NewCallbackListener("")
	assert.NoError(err)
	assert.Contains(callbackURL, "/callback")
	listener.Close()
}

func Test_oauth_009(t *testing.T) {
	// The client timeout applies to the handshake requests as well as
	// the API calls
	assert := assert.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true")
	}))
	t.Cleanup(server.Close)

	c, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret", client.OptTimeout(50*time.Millisecond))
	assert.NoError(err)

	err = c.RequestToken(t.Context())
	assert.ErrorIs(err, plurk.ErrHandshake)
	assert.Equal(plurk.Unauthenticated, c.State())
}
