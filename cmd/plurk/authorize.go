package main

import (
	"fmt"

	// Packages
	plurk "github.com/mutablelogic/go-plurk"
	keyfile "github.com/mutablelogic/go-plurk/pkg/keyfile"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type AuthorizeCmd struct {
	Listen string `name:"listen" help:"Receive the verifier on a loopback callback address instead of prompting, for example 127.0.0.1:8080"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *AuthorizeCmd) Run(globals *Globals) error {
	client, err := globals.newClient()
	if err != nil {
		return err
	}

	// Run the handshake, with the verifier supplied either by a
	// loopback callback or on the console
	if cmd.Listen != "" {
		err = client.AuthorizeWithCallback(globals.ctx, cmd.Listen, func(authURL string) {
			fmt.Println("Open the following URL in your browser to authorize:")
			fmt.Println()
			fmt.Println("  " + authURL)
			fmt.Println()
		})
	} else {
		err = client.Authorize(globals.ctx, plurk.StdinVerifier())
	}
	if err != nil {
		return err
	}

	// Save the access token pair back to the key file
	if err := keyfile.Save(globals.Keys, client.Credential()); err != nil {
		return err
	}

	// Return success
	fmt.Printf("Authorized, access token saved to %q\n", globals.Keys)
	return nil
}
