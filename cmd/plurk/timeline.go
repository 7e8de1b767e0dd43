package main

import (
	"fmt"
	"os"
	"path/filepath"

	// Packages
	plurk "github.com/mutablelogic/go-plurk"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type ProfileCmd struct {
	User string `arg:"" optional:"" help:"User id or nick name, defaults to your own profile"`
}

type TimelineCmd struct {
	Limit  int    `name:"limit" default:"20" help:"Maximum number of plurks to return"`
	Filter string `name:"filter" help:"One of only_user, only_responded, only_private, only_favorite"`
}

type AddCmd struct {
	Content   string `arg:"" help:"The plurk text"`
	Qualifier string `name:"qualifier" help:"Qualifier, for example says, loves, shares"`
	Lang      string `name:"lang" help:"Language code"`
}

type UploadCmd struct {
	Path string `arg:"" type:"existingfile" help:"Path to the picture to upload"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *ProfileCmd) Run(globals *Globals) error {
	client, err := globals.newClient()
	if err != nil {
		return err
	}

	var profile *plurk.Profile
	if cmd.User != "" {
		profile, err = client.GetPublicProfile(globals.ctx, cmd.User)
	} else {
		profile, err = client.GetOwnProfile(globals.ctx)
	}
	if err != nil {
		return err
	}
	return printJSON(profile)
}

func (cmd *TimelineCmd) Run(globals *Globals) error {
	client, err := globals.newAuthorizedClient()
	if err != nil {
		return err
	}

	timeline, err := client.GetPlurks(globals.ctx, &plurk.TimelineRequest{
		Limit:  cmd.Limit,
		Filter: cmd.Filter,
	})
	if err != nil {
		return err
	}
	return printJSON(timeline)
}

func (cmd *AddCmd) Run(globals *Globals) error {
	client, err := globals.newAuthorizedClient()
	if err != nil {
		return err
	}

	posted, err := client.AddPlurk(globals.ctx, &plurk.AddPlurkRequest{
		Content:   cmd.Content,
		Qualifier: cmd.Qualifier,
		Lang:      cmd.Lang,
	})
	if err != nil {
		return err
	}
	return printJSON(posted)
}

func (cmd *UploadCmd) Run(globals *Globals) error {
	client, err := globals.newAuthorizedClient()
	if err != nil {
		return err
	}

	file, err := os.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	picture, err := client.UploadPicture(globals.ctx, filepath.Base(cmd.Path), file)
	if err != nil {
		return err
	}

	// Return success
	fmt.Println(picture.Full)
	return nil
}
