package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsRoundTrip(t *testing.T) {
	cases := map[string][]string{
		"empty":         {},
		"single":        {"news"},
		"comma inside":  {"a,b", "c"},
		"unicode":       {"música", "日本語", "emoji 🎧"},
		"quotes":        {`say "hi"`, `back\slash`},
		"order matters": {"z", "a", "m"},
	}
	for name, tags := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := EncodeTags(tags)
			require.NoError(t, err)
			decoded, err := DecodeTags(raw)
			require.NoError(t, err)
			assert.Equal(t, tags, decoded)
		})
	}
}

func TestEncodeNilTags(t *testing.T) {
	raw, err := EncodeTags(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodeTagsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", "null", `{"a":1}`, `[1,2]`, `["a",`} {
		_, err := DecodeTags(raw)
		assert.Error(t, err, "input %q", raw)
		assert.True(t, IsDecode(err), "input %q should yield a DecodeError", raw)
	}
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"tech", "go", "news"}, ParseTagList(" tech, go ,news"))
	assert.Equal(t, []string{}, ParseTagList(""))
	assert.Equal(t, []string{"a"}, ParseTagList("a, ,a,"))
}
