package plurk

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	// Packages
	client "github.com/mutablelogic/go-client"
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TimelineRequest defines the input for a timeline query
type TimelineRequest struct {
	// Return plurks older than this time, for paging
	Offset Timestamp

	// Maximum number of plurks to return (max 30)
	Limit int

	// One of only_user, only_responded, only_private, only_favorite
	Filter string
}

// AddPlurkRequest defines the input for posting a new plurk
type AddPlurkRequest struct {
	// The plurk text
	Content string

	// The qualifier, for example "says", "loves", "shares"
	Qualifier string

	// Language code, for example "en"
	Lang string

	// 0 responses enabled, 1 responses disabled, 2 friends only
	NoComments int
}

// uploadPictureRequest carries the multipart file payload
type uploadPictureRequest struct {
	Image gomultipart.File `json:"image"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetPlurk returns a single plurk by id
func (c *Client) GetPlurk(ctx context.Context, plurkID int64) (*Plurk, error) {
	if plurkID == 0 {
		return nil, ErrBadParameter.With("missing plurk id")
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(plurkID, 10))

	// Request -> Response. The payload nests the plurk alongside the
	// owner information
	var response struct {
		Plurk
		User User `json:"user"`
	}
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Timeline", "getPlurk"), client.OptQuery(params)); err != nil {
		return nil, err
	}

	// Return success
	return &response.Plurk, nil
}

// GetPlurks returns a page of the authorized user's timeline
func (c *Client) GetPlurks(ctx context.Context, req *TimelineRequest) (*Timeline, error) {
	var response Timeline

	// Request -> Response
	opts := []client.RequestOpt{client.OptPath("APP", "Timeline", "getPlurks")}
	if req != nil {
		if params := req.Values(); len(params) > 0 {
			opts = append(opts, client.OptQuery(params))
		}
	}
	if err := c.DoWithContext(ctx, nil, &response, opts...); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// AddPlurk posts a new plurk on the authorized user's timeline
func (c *Client) AddPlurk(ctx context.Context, req *AddPlurkRequest) (*Plurk, error) {
	if req == nil || req.Content == "" {
		return nil, ErrBadParameter.With("missing content")
	}

	// Request -> Response
	var response Plurk
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("APP", "Timeline", "plurkAdd"), client.OptQuery(req.Values())); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

// UploadPicture uploads a picture for use in a plurk, returning the
// full-size and thumbnail URLs
func (c *Client) UploadPicture(ctx context.Context, name string, r io.Reader) (*Picture, error) {
	if name == "" || r == nil {
		return nil, ErrBadParameter.With("missing picture")
	}

	// Create the multipart request
	payload, err := client.NewStreamingMultipartRequest(uploadPictureRequest{
		Image: gomultipart.File{
			Path: name,
			Body: io.NopCloser(r),
		},
	}, client.ContentTypeJson)
	if err != nil {
		return nil, err
	}

	// Request -> Response
	var response Picture
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("APP", "Timeline", "uploadPicture")); err != nil {
		return nil, err
	}

	// Return success
	return &response, nil
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

// Values converts a TimelineRequest to URL query parameters
func (r *TimelineRequest) Values() url.Values {
	result := url.Values{}
	if !r.Offset.IsZero() {
		result.Set("offset", r.Offset.UTC().Format("2006-01-02T15:04:05"))
	}
	if r.Limit > 0 {
		result.Set("limit", fmt.Sprint(r.Limit))
	}
	if r.Filter != "" {
		result.Set("filter", r.Filter)
	}
	return result
}

// Values converts an AddPlurkRequest to URL query parameters
func (r *AddPlurkRequest) Values() url.Values {
	result := url.Values{}
	result.Set("content", r.Content)
	if r.Qualifier != "" {
		result.Set("qualifier", r.Qualifier)
	} else {
		result.Set("qualifier", ":")
	}
	if r.Lang != "" {
		result.Set("lang", r.Lang)
	}
	if r.NoComments > 0 {
		result.Set("no_comments", fmt.Sprint(r.NoComments))
	}
	return result
}
