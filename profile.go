package plurk

import (
	"context"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetOwnProfile returns the profile of the authorized user
func (c *Client) GetOwnProfile(ctx context.Context) (*Profile, error) {
	var response Profile

	// Request -> Response
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Profile", "getOwnProfile")); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// GetPublicProfile returns the public profile for a user, by numeric id
// or nick name
func (c *Client) GetPublicProfile(ctx context.Context, user string) (*Profile, error) {
	if user == "" {
		return nil, ErrBadParameter.With("missing user")
	}

	params := url.Values{}
	params.Set("user_id", user)

	// Request -> Response
	var response Profile
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Profile", "getPublicProfile"), client.OptQuery(params)); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}
