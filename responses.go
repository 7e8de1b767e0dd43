package plurk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetResponses returns the responses to a plurk, starting at the given
// offset
func (c *Client) GetResponses(ctx context.Context, plurkID int64, from int) (*Responses, error) {
	if plurkID == 0 {
		return nil, ErrBadParameter.With("missing plurk id")
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(plurkID, 10))
	if from > 0 {
		params.Set("from_response", fmt.Sprint(from))
	}

	// Request -> Response
	var response Responses
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Responses", "get"), client.OptQuery(params)); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// AddResponse posts a response to a plurk
func (c *Client) AddResponse(ctx context.Context, plurkID int64, content, qualifier string) (*PlurkResponse, error) {
	if plurkID == 0 {
		return nil, ErrBadParameter.With("missing plurk id")
	}
	if content == "" {
		return nil, ErrBadParameter.With("missing content")
	}
	if qualifier == "" {
		qualifier = ":"
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(plurkID, 10))
	params.Set("content", content)
	params.Set("qualifier", qualifier)

	// Request -> Response
	var response PlurkResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Responses", "responseAdd"), client.OptQuery(params)); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}
