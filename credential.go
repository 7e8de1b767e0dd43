package plurk

import (
	"encoding/json"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Credential holds the OAuth 1.0a values for a Plurk application and,
// once the handshake has completed, the access token pair for a user.
// The JSON field names match the API.keys file format.
type Credential struct {
	ConsumerKey    string `json:"CONSUMER_KEY"`
	ConsumerSecret string `json:"CONSUMER_SECRET"`
	Token          string `json:"ACCESS_TOKEN,omitempty"`
	TokenSecret    string `json:"ACCESS_TOKEN_SECRET,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate returns an error if the consumer key or secret is missing
func (c Credential) Validate() error {
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return ErrBadParameter.With("missing consumer key or secret")
	}
	return nil
}

// IsAuthorized returns true when an access token pair is present
func (c Credential) IsAuthorized() bool {
	return c.Token != "" && c.TokenSecret != ""
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

// String returns the credential with secrets redacted
func (c Credential) String() string {
	redacted := c
	if redacted.ConsumerSecret != "" {
		redacted.ConsumerSecret = "****"
	}
	if redacted.TokenSecret != "" {
		redacted.TokenSecret = "****"
	}
	data, err := json.Marshal(redacted)
	if err != nil {
		return ""
	}
	return string(data)
}
