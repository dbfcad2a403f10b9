package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "12:34:56", BuildRID(12, 34, 56))
	assert.Equal(t, "0:0:0", BuildRID(0, 0, 0))
}

func TestContextMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRID(ctx, "1:2:3")
	ctx = WithUpdateMeta(ctx, 1, 2, 3)
	ctx = WithHandler(ctx, "vote")

	assert.Equal(t, "1:2:3", RIDFrom(ctx))
	assert.Equal(t, 1, UpdateIDFrom(ctx))
	assert.Equal(t, int64(2), UserIDFrom(ctx))
	assert.Equal(t, int64(3), ChatIDFrom(ctx))
	assert.Equal(t, "vote", HandlerFrom(ctx))
}

func TestContextHelpersNilSafe(t *testing.T) {
	assert.Equal(t, "", RIDFrom(nil))
	assert.Equal(t, int64(0), UserIDFrom(nil))
	assert.Equal(t, 0, UpdateIDFrom(nil))
	assert.NotNil(t, WithRID(nil, "x"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello world", Sanitize("hello\x00 world\x7f"))
	assert.Equal(t, "tab\tand\nnewline", Sanitize("tab\tand\nnewline"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "abc", SanitizeLimit("abcdef", 3))
	assert.Equal(t, "", SanitizeLimit("abc", 0))
	assert.Equal(t, "héllo", SanitizeLimit("héllo", 10))
}
