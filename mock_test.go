package plurk_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"

	// Packages
	plurk "github.com/mutablelogic/go-plurk"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// mockServer serves the three OAuth endpoints plus an API handler
// registered at an exact path, so that a request with a mangled path
// fails with a 404 instead of silently reaching the handler
type mockServer struct {
	*httptest.Server

	sync.Mutex
	requestTokenCount int
	accessTokenCount  int
	callbackURL       string
	verifier          string
}

func newMockServer(t *testing.T, path string, api http.HandlerFunc) *mockServer {
	t.Helper()
	m := new(mockServer)

	mux := http.NewServeMux()
	mux.HandleFunc("/OAuth/request_token", func(w http.ResponseWriter, r *http.Request) {
		m.Lock()
		m.requestTokenCount++
		m.callbackURL = authParam(r, "oauth_callback")
		m.Unlock()
		if authParam(r, "oauth_consumer_key") == "" || authParam(r, "oauth_signature") == "" {
			http.Error(w, "missing oauth parameters", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/OAuth/access_token", func(w http.ResponseWriter, r *http.Request) {
		verifier := authParam(r, "oauth_verifier")
		m.Lock()
		m.accessTokenCount++
		m.verifier = verifier
		m.Unlock()
		if authParam(r, "oauth_token") != "req-token" || verifier == "" {
			http.Error(w, "invalid request token or verifier", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "oauth_token=access-token&oauth_token_secret=access-secret")
	})
	if api != nil {
		mux.HandleFunc(path, api)
	}

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) RequestTokenCount() int {
	m.Lock()
	defer m.Unlock()
	return m.requestTokenCount
}

func (m *mockServer) AccessTokenCount() int {
	m.Lock()
	defer m.Unlock()
	return m.accessTokenCount
}

func (m *mockServer) CallbackURL() string {
	m.Lock()
	defer m.Unlock()
	return m.callbackURL
}

func (m *mockServer) Verifier() string {
	m.Lock()
	defer m.Unlock()
	return m.verifier
}

// newAuthorizedClient returns a client for the mock server with the
// access token pair already installed
func newAuthorizedClient(t *testing.T, server *mockServer) *plurk.Client {
	t.Helper()
	client, err := plurk.NewWithEndpoint(server.URL, "consumer-key", "consumer-secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.AuthorizeWithToken("access-token", "access-secret"); err != nil {
		t.Fatal(err)
	}
	return client
}

// authParam extracts a parameter value from the OAuth Authorization
// header, percent-decoded
func authParam(r *http.Request, name string) string {
	header := r.Header.Get("Authorization")
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `="([^"]*)"`)
	match := re.FindStringSubmatch(header)
	if match == nil {
		return ""
	}
	value, err := url.QueryUnescape(match[1])
	if err != nil {
		return ""
	}
	return value
}
