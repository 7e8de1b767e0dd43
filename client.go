/*
plurk implements an API client for the Plurk API 2.0
(https://www.plurk.com/API). Requests are signed with OAuth 1.0a and the
client performs the three-legged handshake to obtain an access token,
which can be persisted to a key file and reused.
*/
package plurk

import (
	"context"
	"net/http"
	"strings"

	// Packages
	oauth1 "github.com/dghubble/oauth1"
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	config *oauth1.Config

	endpoint string
	cred     Credential
	state    AuthState

	// Unsigned http client from go-client, used as the base transport
	// whenever a new signing transport is installed
	base *http.Client

	// Temporary credentials held between the request-token and
	// access-token steps of the handshake
	requestToken  string
	requestSecret string
}

// AuthState represents the position of the client in the OAuth handshake
type AuthState int

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint = "https://www.plurk.com"

	requestTokenPath = "/OAuth/request_token"
	authorizePath    = "/OAuth/authorize"
	accessTokenPath  = "/OAuth/access_token"
)

const (
	Unauthenticated AuthState = iota
	RequestTokenObtained
	Authorized
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Create a new client with consumer credentials
func New(consumerKey, consumerSecret string, opts ...client.ClientOpt) (*Client, error) {
	return NewWithEndpoint(endPoint, consumerKey, consumerSecret, opts...)
}

// Create a new client against a specific endpoint. Used for testing
// against a mock server; most callers should use New
func NewWithEndpoint(endpoint, consumerKey, consumerSecret string, opts ...client.ClientOpt) (*Client, error) {
	cred := Credential{ConsumerKey: consumerKey, ConsumerSecret: consumerSecret}
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint == "" {
		return nil, ErrBadParameter.With("missing endpoint")
	}

	// Create client
	opts = append(opts, client.OptEndpoint(endpoint))
	c, err := client.New(opts...)
	if err != nil {
		return nil, err
	}

	// OAuth1 configuration for signing and the three-legged handshake.
	// The handshake requests go through the go-client transport so that
	// timeouts apply to them as well
	config := &oauth1.Config{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		HTTPClient:     c.Client,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: endpoint + requestTokenPath,
			AuthorizeURL:    endpoint + authorizePath,
			AccessTokenURL:  endpoint + accessTokenPath,
		},
	}

	self := &Client{
		Client:   c,
		config:   config,
		endpoint: endpoint,
		cred:     cred,
		base:     c.Client,
	}

	// Install a two-legged signing transport. The server will reject
	// calls which require an access token
	self.install("", "")
	self.state = Unauthenticated

	// Return the client
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Return the current credential, including any access token pair
func (c *Client) Credential() Credential {
	return c.cred
}

// Return true when the client holds an access token pair
func (c *Client) IsAuthorized() bool {
	return c.state == Authorized && c.cred.IsAuthorized()
}

// Return the handshake state
func (c *Client) State() AuthState {
	return c.state
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// install replaces the underlying http client with an OAuth1 signing
// transport for the given token pair. The base transport from go-client
// is injected into the oauth1 library so that tracing and timeouts
// still apply
func (c *Client) install(token, secret string) {
	c.cred.Token = token
	c.cred.TokenSecret = secret

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, c.base)
	signed := c.config.Client(ctx, oauth1.NewToken(token, secret))
	signed.Timeout = c.base.Timeout
	c.Client.Client = signed
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s AuthState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case RequestTokenObtained:
		return "request token obtained"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}
