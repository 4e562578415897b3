package db

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"podcast-studio/internal/models"
	"podcast-studio/internal/store"
)

// Seed is a YAML document holding a channel and its episodes.
//
//	channel:
//	  user_name: defaultuser
//	  channel_name: My Show
//	episodes:
//	  - title: Pilot
//	    url: https://cdn.example.com/pilot.mp3
//	    tags: [intro]
type Seed struct {
	Channel  *models.ChannelSettings `yaml:"channel"`
	Episodes []models.NewEpisode     `yaml:"episodes"`
}

// ImportResult summarizes a seed import.
type ImportResult struct {
	Channel  *models.ChannelProfile `json:"channel,omitempty"`
	Episodes []models.Episode       `json:"episodes"`
}

// DecodeSeed parses a seed document. Unknown keys are rejected.
func DecodeSeed(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return &seed, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// ImportSeed writes the seed into st. Episodes are attached to the seeded
// channel when one is present. Tags are cleaned the same way as form input.
func ImportSeed(ctx context.Context, st store.Store, seed *Seed) (*ImportResult, error) {
	result := &ImportResult{Episodes: []models.Episode{}}
	var channelID *int64
	if seed.Channel != nil {
		ch, err := st.UpsertChannel(ctx, *seed.Channel)
		if err != nil {
			return nil, fmt.Errorf("import channel: %w", err)
		}
		result.Channel = ch
		channelID = &ch.ID
	}
	for i, ep := range seed.Episodes {
		ep.Tags = models.CleanTags(ep.Tags)
		created, err := st.AddEpisode(ctx, ep, channelID)
		if err != nil {
			return nil, fmt.Errorf("import episode %d (%q): %w", i+1, ep.Title, err)
		}
		result.Episodes = append(result.Episodes, *created)
	}
	return result, nil
}
