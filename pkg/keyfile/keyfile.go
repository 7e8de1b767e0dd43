/*
keyfile reads and writes credential key files, so that an access token
obtained from the OAuth handshake can be reused without repeating it.
Files are written as JSON in the API.keys format:

	{
	  "CONSUMER_KEY": "...",
	  "CONSUMER_SECRET": "...",
	  "ACCESS_TOKEN": "...",
	  "ACCESS_TOKEN_SECRET": "..."
	}

Files in simple key=value form are also accepted when reading.
*/
package keyfile

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	// Packages
	plurk "github.com/mutablelogic/go-plurk"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	consumerKey    = "CONSUMER_KEY"
	consumerSecret = "CONSUMER_SECRET"
	accessToken    = "ACCESS_TOKEN"
	accessSecret   = "ACCESS_TOKEN_SECRET"
)

// Key files hold secrets
const fileMode = 0600

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Load reads a credential from a key file, in either JSON or key=value
// form. The consumer key and secret are required; the access token pair
// is optional
func Load(path string) (plurk.Credential, error) {
	var cred plurk.Credential

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cred, plurk.ErrNotFound.Withf("%s", path)
	} else if err != nil {
		return cred, err
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("{")) {
		if err := json.Unmarshal(data, &cred); err != nil {
			return plurk.Credential{}, plurk.ErrBadParameter.Withf("%s: %v", path, err)
		}
	} else {
		cred = parseKeyValues(string(data))
	}

	// The consumer pair is always required
	if err := cred.Validate(); err != nil {
		return plurk.Credential{}, plurk.ErrBadParameter.Withf("%s: %v", path, err)
	}

	// Return success
	return cred, nil
}

// Save writes a credential to a key file as JSON, with permissions
// restricted to the owner
func Save(path string, cred plurk.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), fileMode)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// parseKeyValues reads key=value lines, ignoring blank lines and
// comments
func parseKeyValues(data string) plurk.Credential {
	var cred plurk.Credential
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case consumerKey:
			cred.ConsumerKey = value
		case consumerSecret:
			cred.ConsumerSecret = value
		case accessToken:
			cred.Token = value
		case accessSecret:
			cred.TokenSecret = value
		}
	}
	return cred
}
