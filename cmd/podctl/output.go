package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"podcast-studio/internal/models"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEpisodes(cmd *cobra.Command, jsonOut bool, episodes []models.Episode) error {
	if jsonOut {
		return writeJSON(cmd, episodes)
	}
	if len(episodes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No episodes")
		return nil
	}
	rows := make([][]string, 0, len(episodes))
	for _, ep := range episodes {
		rows = append(rows, []string{
			strconv.FormatInt(ep.ID, 10),
			ep.Title,
			strings.Join(ep.Tags, ", "),
			ep.CreatedAt.Format(time.DateTime),
			ep.UpdatedAt.Format(time.DateTime),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Title", "Tags", "Created", "Updated"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}

func printEpisode(cmd *cobra.Command, jsonOut bool, ep *models.Episode) error {
	if jsonOut {
		return writeJSON(cmd, ep)
	}
	rows := [][]string{
		{"ID", strconv.FormatInt(ep.ID, 10)},
		{"Title", ep.Title},
		{"Description", ep.Description},
		{"URL", ep.URL},
		{"Thumbnail", ep.Thumbnail},
		{"Tags", strings.Join(ep.Tags, ", ")},
		{"Created", ep.CreatedAt.Format(time.RFC3339)},
		{"Updated", ep.UpdatedAt.Format(time.RFC3339)},
	}
	if ep.ChannelID != nil {
		rows = append(rows, []string{"Channel", strconv.FormatInt(*ep.ChannelID, 10)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func printChannel(cmd *cobra.Command, jsonOut bool, ch *models.ChannelProfile) error {
	if jsonOut {
		return writeJSON(cmd, ch)
	}
	rows := [][]string{
		{"ID", strconv.FormatInt(ch.ID, 10)},
		{"User", ch.UserName},
		{"Name", ch.ChannelName},
		{"Description", ch.ChannelDescription},
		{"Logo", ch.LogoURL},
		{"Website", ch.PersonalWebsite},
		{"Feed", ch.FeedURL},
		{"Author", strings.TrimSpace(ch.AuthorName + " " + angle(ch.AuthorEmail))},
		{"Owner", strings.TrimSpace(ch.OwnerName + " " + angle(ch.OwnerEmail))},
		{"Explicit", strconv.FormatBool(ch.IsExplicitContent)},
		{"Language", ch.Language},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func angle(email string) string {
	if email == "" {
		return ""
	}
	return "<" + email + ">"
}
