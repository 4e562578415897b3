package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podcast-studio/internal/models"
)

func newChannelCommand(ctx *commandContext) *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Show or edit channel metadata",
	}
	channelCmd.AddCommand(newChannelShowCommand(ctx))
	channelCmd.AddCommand(newChannelSetCommand(ctx))
	return channelCmd
}

func newChannelShowCommand(ctx *commandContext) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			ch, err := st.GetChannel(cmd.Context(), user)
			if err != nil {
				return err
			}
			if ch == nil {
				return fmt.Errorf("no channel for user %q", user)
			}
			return printChannel(cmd, ctx.jsonOut, ch)
		},
	}
	cmd.Flags().StringVar(&user, "user", models.DefaultUserName, "Channel owner")
	return cmd
}

func newChannelSetCommand(ctx *commandContext) *cobra.Command {
	var settings models.ChannelSettings
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace a user's channel metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			ch, err := st.UpsertChannel(cmd.Context(), settings)
			if err != nil {
				return err
			}
			return printChannel(cmd, ctx.jsonOut, ch)
		},
	}
	f := cmd.Flags()
	f.StringVar(&settings.UserName, "user", models.DefaultUserName, "Channel owner")
	f.StringVar(&settings.ChannelName, "name", "", "Channel name")
	f.StringVar(&settings.ChannelDescription, "description", "", "Channel description")
	f.StringVar(&settings.LogoURL, "logo", "", "Logo URL")
	f.StringVar(&settings.PersonalWebsite, "website", "", "Personal website")
	f.StringVar(&settings.FeedURL, "feed", "", "Feed URL")
	f.StringVar(&settings.AuthorName, "author", "", "Author name")
	f.StringVar(&settings.AuthorEmail, "author-email", "", "Author email")
	f.StringVar(&settings.OwnerName, "owner", "", "Owner name")
	f.StringVar(&settings.OwnerEmail, "owner-email", "", "Owner email")
	f.BoolVar(&settings.IsExplicitContent, "explicit", false, "Mark the channel as explicit")
	f.StringVar(&settings.Language, "language", models.DefaultLanguage, "Channel language")
	return cmd
}
