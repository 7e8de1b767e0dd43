package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	plurk "github.com/mutablelogic/go-plurk"
	keyfile "github.com/mutablelogic/go-plurk/pkg/keyfile"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable request tracing"`
	Verbose bool `name:"verbose" help:"Enable verbose request tracing"`

	// Credentials
	Keys     string        `name:"keys" env:"PLURK_KEYS" default:"API.keys" help:"Path to the credential key file"`
	Endpoint string        `name:"endpoint" env:"PLURK_ENDPOINT" hidden:"" help:"Override the API endpoint"`
	Timeout  time.Duration `name:"timeout" default:"30s" help:"Request timeout"`

	// Context
	ctx context.Context
}

type CLI struct {
	Globals

	// Handshake
	Authorize AuthorizeCmd `cmd:"" help:"Run the OAuth handshake and save the access token"`

	// Commands
	Call     CallCmd     `cmd:"" help:"Make a signed API call and print the JSON response"`
	Profile  ProfileCmd  `cmd:"" help:"Return a user profile"`
	Timeline TimelineCmd `cmd:"" help:"Return plurks from your timeline"`
	Add      AddCmd      `cmd:"" help:"Post a new plurk"`
	Upload   UploadCmd   `cmd:"" help:"Upload a picture"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Plurk API command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

func (globals *Globals) clientOpts() []client.ClientOpt {
	result := []client.ClientOpt{client.OptTimeout(globals.Timeout)}
	if globals.Debug {
		result = append(result, client.OptTrace(os.Stderr, globals.Verbose))
	}
	return result
}

// newClient loads the key file and returns a client. When the key file
// holds an access token pair, the client is authorized with it
func (globals *Globals) newClient() (*plurk.Client, error) {
	cred, err := keyfile.Load(globals.Keys)
	if err != nil {
		return nil, err
	}

	var client *plurk.Client
	if globals.Endpoint != "" {
		client, err = plurk.NewWithEndpoint(globals.Endpoint, cred.ConsumerKey, cred.ConsumerSecret, globals.clientOpts()...)
	} else {
		client, err = plurk.New(cred.ConsumerKey, cred.ConsumerSecret, globals.clientOpts()...)
	}
	if err != nil {
		return nil, err
	}
	if cred.IsAuthorized() {
		if err := client.AuthorizeWithToken(cred.Token, cred.TokenSecret); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// newAuthorizedClient is newClient, but requires an access token pair
func (globals *Globals) newAuthorizedClient() (*plurk.Client, error) {
	client, err := globals.newClient()
	if err != nil {
		return nil, err
	}
	if !client.IsAuthorized() {
		return nil, plurk.ErrNotAuthorized.Withf("no access token in %q, run %q first", globals.Keys, execName()+" authorize")
	}
	return client, nil
}
