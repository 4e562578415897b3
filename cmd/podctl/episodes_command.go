package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podcast-studio/internal/models"
	"podcast-studio/internal/stats"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:     "episodes",
		Aliases: []string{"episode", "ep"},
		Short:   "List and edit episodes",
	}
	episodesCmd.AddCommand(newEpisodesListCommand(ctx))
	episodesCmd.AddCommand(newEpisodesShowCommand(ctx))
	episodesCmd.AddCommand(newEpisodesAddCommand(ctx))
	episodesCmd.AddCommand(newEpisodesUpdateCommand(ctx))
	episodesCmd.AddCommand(newEpisodesDeleteCommand(ctx))
	return episodesCmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid episode id %q", arg)
	}
	return id, nil
}

func newEpisodesListCommand(ctx *commandContext) *cobra.Command {
	var (
		tag     string
		channel int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			var episodes []models.Episode
			switch {
			case channel > 0:
				episodes, err = st.ListEpisodesByChannel(cmd.Context(), channel)
				if err == nil && tag != "" {
					episodes = stats.FilterByTag(episodes, tag)
				}
			case tag != "":
				episodes, err = st.EpisodesByTag(cmd.Context(), tag)
			default:
				episodes, err = st.ListEpisodes(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printEpisodes(cmd, ctx.jsonOut, episodes)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only episodes with this tag")
	cmd.Flags().Int64Var(&channel, "channel", 0, "Only episodes of this channel id")
	return cmd
}

func newEpisodesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			ep, err := st.GetEpisode(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ep == nil {
				return fmt.Errorf("episode %d not found", id)
			}
			return printEpisode(cmd, ctx.jsonOut, ep)
		},
	}
}

func newEpisodesAddCommand(ctx *commandContext) *cobra.Command {
	var (
		ep      models.NewEpisode
		tags    string
		channel int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			ep.Tags = models.ParseTagList(tags)
			var channelID *int64
			if channel > 0 {
				channelID = &channel
			}
			created, err := st.AddEpisode(cmd.Context(), ep, channelID)
			if err != nil {
				return err
			}
			return printEpisode(cmd, ctx.jsonOut, created)
		},
	}
	f := cmd.Flags()
	f.StringVar(&ep.Title, "title", "", "Episode title (required)")
	f.StringVar(&ep.URL, "url", "", "Audio URL (required)")
	f.StringVar(&ep.Description, "description", "", "Episode description")
	f.StringVar(&ep.Thumbnail, "thumbnail", "", "Thumbnail URL")
	f.StringVar(&tags, "tags", "", "Comma-separated tags")
	f.Int64Var(&channel, "channel", 0, "Owning channel id")
	return cmd
}

func newEpisodesUpdateCommand(ctx *commandContext) *cobra.Command {
	var title, description, url, thumbnail, tags string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change selected fields of an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			// Only flags given on the command line become patch fields.
			var patch models.EpisodePatch
			f := cmd.Flags()
			if f.Changed("title") {
				patch.Title = &title
			}
			if f.Changed("description") {
				patch.Description = &description
			}
			if f.Changed("url") {
				patch.URL = &url
			}
			if f.Changed("thumbnail") {
				patch.Thumbnail = &thumbnail
			}
			if f.Changed("tags") {
				list := models.ParseTagList(tags)
				patch.Tags = &list
			}

			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			updated, err := st.UpdateEpisode(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return printEpisode(cmd, ctx.jsonOut, updated)
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "New title")
	f.StringVar(&description, "description", "", "New description")
	f.StringVar(&url, "url", "", "New audio URL")
	f.StringVar(&thumbnail, "thumbnail", "", "New thumbnail URL")
	f.StringVar(&tags, "tags", "", "Replace tags (comma-separated)")
	return cmd
}

func newEpisodesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an episode",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			deleted, err := st.DeleteEpisode(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, map[string]bool{"deleted": deleted})
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted episode %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Episode %d did not exist\n", id)
			}
			return nil
		},
	}
}
