package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// EncodeTags renders a tag list as the JSON array text stored in episodes.tags.
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeTags parses the stored JSON array text. Anything that is not an array of
// strings is reported as a *DecodeError; it is never mapped to an empty list.
func DecodeTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &DecodeError{Column: "tags", Value: raw, Err: errors.New("empty value")}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, &DecodeError{Column: "tags", Value: raw, Err: err}
	}
	if tags == nil {
		// "null" unmarshals without error
		return nil, &DecodeError{Column: "tags", Value: raw, Err: errors.New("not an array")}
	}
	return tags, nil
}

// ParseTagList splits comma-separated form input into tags.
func ParseTagList(raw string) []string {
	return CleanTags(strings.Split(raw, ","))
}

// CleanTags trims every entry, drops blanks and removes duplicates keeping the
// first occurrence. The result is never nil.
func CleanTags(tags []string) []string {
	cleaned := []string{}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tag := strings.TrimSpace(t)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}
