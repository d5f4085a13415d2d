package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRIDRoundTrip(t *testing.T) {
	ctx := WithRID(context.Background(), "5:10:20")
	assert.Equal(t, "5:10:20", RIDFrom(ctx))

	assert.Empty(t, RIDFrom(context.Background()))
	assert.Empty(t, RIDFrom(nil))
}

func TestWithRIDNilContext(t *testing.T) {
	ctx := WithRID(nil, "1:2:3")
	assert.Equal(t, "1:2:3", RIDFrom(ctx))
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "17:-100500:42", BuildRID(17, -100500, 42))
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"bell\x07char", "bellchar"},
		{"del\x7fchar", "delchar"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Sanitize(c.in))
	}
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "", SanitizeLimit("anything", 0))
	assert.Equal(t, "abc", SanitizeLimit("abcdef", 3))
	assert.Equal(t, "abc", SanitizeLimit("abc", 10))
	// Runes, not bytes.
	assert.Equal(t, "héllo", SanitizeLimit("héllo world", 5))
}
