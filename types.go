package plurk

import (
	"encoding/json"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Timestamp wraps time.Time for the RFC1123 format used by the API,
// for example "Fri, 05 Jun 2009 23:07:13 GMT"
type Timestamp struct {
	time.Time
}

// User represents a Plurk user
type User struct {
	ID          int64   `json:"id"`
	NickName    string  `json:"nick_name"`
	DisplayName string  `json:"display_name,omitempty"`
	FullName    string  `json:"full_name,omitempty"`
	Avatar      *int64  `json:"avatar,omitempty"`
	Karma       float64 `json:"karma,omitempty"`
	Gender      int     `json:"gender,omitempty"`
	Location    string  `json:"location,omitempty"`
	Joined      string  `json:"date_of_birth,omitempty"`
}

// Plurk represents a single plurk on a timeline
type Plurk struct {
	PlurkID       int64     `json:"plurk_id"`
	OwnerID       int64     `json:"owner_id"`
	UserID        int64     `json:"user_id"`
	Qualifier     string    `json:"qualifier"`
	Content       string    `json:"content"`
	ContentRaw    string    `json:"content_raw,omitempty"`
	Lang          string    `json:"lang,omitempty"`
	Posted        Timestamp `json:"posted"`
	NoComments    int       `json:"no_comments,omitempty"`
	PlurkType     int       `json:"plurk_type,omitempty"`
	ResponseCount int       `json:"response_count,omitempty"`
	FavoriteCount int       `json:"favorite_count,omitempty"`
	ReplurkCount  int       `json:"replurkers_count,omitempty"`
}

// PlurkResponse represents a response to a plurk
type PlurkResponse struct {
	ID         int64     `json:"id"`
	PlurkID    int64     `json:"plurk_id"`
	UserID     int64     `json:"user_id"`
	Qualifier  string    `json:"qualifier"`
	Content    string    `json:"content"`
	ContentRaw string    `json:"content_raw,omitempty"`
	Lang       string    `json:"lang,omitempty"`
	Posted     Timestamp `json:"posted"`
}

// Profile represents a user profile with recent timeline content
type Profile struct {
	UserInfo     User    `json:"user_info"`
	FansCount    int     `json:"fans_count,omitempty"`
	FriendsCount int     `json:"friends_count,omitempty"`
	UnreadCount  int     `json:"unread_count,omitempty"`
	Plurks       []Plurk `json:"plurks,omitempty"`
}

// Timeline represents a page of plurks with the users that posted them
type Timeline struct {
	Plurks     []Plurk         `json:"plurks"`
	PlurkUsers map[string]User `json:"plurk_users,omitempty"`
}

// Responses represents the responses to a plurk with the users that
// posted them
type Responses struct {
	Responses     []PlurkResponse `json:"responses"`
	Friends       map[string]User `json:"friends,omitempty"`
	ResponsesSeen int             `json:"responses_seen,omitempty"`
}

// Picture represents an uploaded picture
type Picture struct {
	Full      string `json:"full"`
	Thumbnail string `json:"thumbnail"`
}

///////////////////////////////////////////////////////////////////////////////
// MARSHAL/UNMARSHAL

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.UTC().Format(time.RFC1123))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC1123, value)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
