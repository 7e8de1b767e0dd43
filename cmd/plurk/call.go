package main

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"

	// Packages
	plurk "github.com/mutablelogic/go-plurk"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type CallCmd struct {
	Path   string   `arg:"" help:"API path, for example /APP/Profile/getOwnProfile"`
	Params []string `arg:"" optional:"" help:"Request parameters as key=value"`
	File   []string `name:"file" help:"File parameters as field=path"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *CallCmd) Run(globals *Globals) error {
	client, err := globals.newClient()
	if err != nil {
		return err
	}

	// Parse the parameters
	params := url.Values{}
	for _, param := range cmd.Params {
		key, value, found := strings.Cut(param, "=")
		if !found {
			return plurk.ErrBadParameter.Withf("expected key=value, got %q", param)
		}
		params.Add(key, value)
	}

	// Parse the file parameters
	var files map[string]string
	for _, file := range cmd.File {
		field, path, found := strings.Cut(file, "=")
		if !found {
			return plurk.ErrBadParameter.Withf("expected field=path, got %q", file)
		}
		if files == nil {
			files = make(map[string]string)
		}
		files[field] = path
	}

	// Make the call, print the response
	payload, err := client.Call(globals.ctx, cmd.Path, params, files)
	if err != nil {
		return err
	}
	return printJSON(payload)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
