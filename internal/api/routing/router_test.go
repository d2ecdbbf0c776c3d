package routing

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(_ *fiber.Ctx, _ Params) error { return nil }

func TestMatchLiteralRoute(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations", noopHandler)

	handler, params, ok := rt.Match("GET", "/api/conversations")
	require.True(t, ok)
	assert.NotNil(t, handler)
	assert.Empty(t, params)
}

func TestMatchBindsParams(t *testing.T) {
	rt := New()
	rt.Add("POST", "/api/conversations/:id/messages", noopHandler)

	_, params, ok := rt.Match("POST", "/api/conversations/conv_123/messages")
	require.True(t, ok)
	assert.Equal(t, "conv_123", params["id"])
}

func TestLiteralWinsOverTemplate(t *testing.T) {
	rt := New()
	var hits []string
	rt.Add("GET", "/api/conversations/:id", func(_ *fiber.Ctx, _ Params) error {
		hits = append(hits, "template")
		return nil
	})
	rt.Add("GET", "/api/conversations/stats", func(_ *fiber.Ctx, _ Params) error {
		hits = append(hits, "literal")
		return nil
	})

	handler, params, ok := rt.Match("GET", "/api/conversations/stats")
	require.True(t, ok)
	require.NoError(t, handler(nil, params))
	// The literal route wins even though it was registered after the
	// template that would otherwise match.
	assert.Equal(t, []string{"literal"}, hits)
}

func TestFirstRegisteredTemplateWins(t *testing.T) {
	rt := New()
	var hits []string
	rt.Add("GET", "/api/items/:id", func(_ *fiber.Ctx, _ Params) error {
		hits = append(hits, "first")
		return nil
	})
	rt.Add("GET", "/api/items/:key", func(_ *fiber.Ctx, _ Params) error {
		hits = append(hits, "second")
		return nil
	})

	handler, params, ok := rt.Match("GET", "/api/items/42")
	require.True(t, ok)
	require.NoError(t, handler(nil, params))
	assert.Equal(t, []string{"first"}, hits)
	assert.Equal(t, "42", params["id"])
}

func TestMethodMismatchDoesNotMatch(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations/:id", noopHandler)

	_, _, ok := rt.Match("POST", "/api/conversations/conv_123")
	assert.False(t, ok)
}

func TestSegmentCountMismatchDoesNotMatch(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations/:id", noopHandler)

	_, _, ok := rt.Match("GET", "/api/conversations/conv_123/messages")
	assert.False(t, ok)
}

func TestTrailingSlashIsADifferentPath(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations", noopHandler)
	rt.Add("GET", "/api/conversations/:id", noopHandler)

	_, _, ok := rt.Match("GET", "/api/conversations/")
	assert.False(t, ok, "trailing slash must not be normalized away")
}

func TestEmptySegmentIsRejected(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations/:id", noopHandler)

	_, _, ok := rt.Match("GET", "/api/conversations//")
	assert.False(t, ok)

	_, _, ok = rt.Match("GET", "/api//conversations")
	assert.False(t, ok)
}

func TestNoMatchAcrossAllTemplates(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations", noopHandler)
	rt.Add("POST", "/api/conversations", noopHandler)

	_, _, ok := rt.Match("GET", "/api/resolutions")
	assert.False(t, ok)
}

func TestExactLiteralWithTrailingSlashMatchesItself(t *testing.T) {
	rt := New()
	rt.Add("GET", "/api/conversations/", noopHandler)

	_, _, ok := rt.Match("GET", "/api/conversations/")
	assert.True(t, ok, "a route registered with a trailing slash is reachable by exact match")
}
