package prompter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		"yes":     true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		ok, err := New(strings.NewReader(in), &out).Confirm("Clear cache?")
		require.NoError(t, err, "%q", in)
		assert.Equal(t, want, ok, "%q", in)
		assert.Equal(t, "Clear cache? [y/N]: ", out.String())
	}
}
