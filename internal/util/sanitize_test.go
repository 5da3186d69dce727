package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("sanitizes invalid characters", func(t *testing.T) {
		actual, err := SanitizeFilename(` avatar<2026>?.png `)
		require.NoError(t, err)
		require.Equal(t, "avatar_2026__.png", actual)
	})

	t.Run("rejects empty filenames", func(t *testing.T) {
		_, err := SanitizeFilename("   ")
		require.Error(t, err)
	})

	t.Run("rejects hidden filenames", func(t *testing.T) {
		_, err := SanitizeFilename(".env")
		require.Error(t, err)
	})

	t.Run("strips zero-width characters", func(t *testing.T) {
		actual, err := SanitizeFilename("cover\u200B photo\u200B.jpg")
		require.NoError(t, err)
		require.Equal(t, "cover photo.jpg", actual)
	})

	t.Run("rejects names that are only invisible characters", func(t *testing.T) {
		_, err := SanitizeFilename("\u200B\u200C\u200D")
		require.Error(t, err)
	})

	t.Run("rune-safe truncation", func(t *testing.T) {
		input := strings.Repeat("é", 260) + ".mp4"
		actual, err := SanitizeFilename(input)
		require.NoError(t, err)
		require.Len(t, []rune(actual), 255)
		require.True(t, utf8.ValidString(actual))
	})
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "  great video  ", want: "great video"},
		{name: "strips script", input: `nice<script>alert(1)</script>`, want: "nice"},
		{name: "strips tags keeps text", input: `<b>bold</b> move`, want: "bold move"},
		{name: "keeps ampersand", input: "Tom & Jerry", want: "Tom & Jerry"},
		{name: "keeps comparisons and quotes", input: `a < b && "c" > 'd'`, want: `a < b && "c" > 'd'`},
		{name: "strips entity encoded markup", input: "&lt;script&gt;alert(1)&lt;/script&gt;ok", want: "ok"},
		{name: "markup only", input: "<img src=x onerror=alert(1)>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}
