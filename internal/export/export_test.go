package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
)

type stubBackend struct{ answer, regen string }

func (s stubBackend) Ask(context.Context, string, string) (string, error) { return s.answer, nil }

func (s stubBackend) Feedback(context.Context, backend.FeedbackRequest) (string, error) {
	return s.regen, nil
}

func newConversation(t *testing.T) *chat.Conversation {
	t.Helper()
	c := chat.New(stubBackend{answer: "The area is $$\\pi r^2$$ for **every** circle.", regen: "Use $A = \\pi r^2$."},
		chat.Options{SessionID: "session-abc123def"})
	_, err := c.Send(context.Background(), "Area of a circle <r>?")
	require.NoError(t, err)
	_, err = c.Feedback(context.Background(), 2, backend.FeedbackClarify)
	require.NoError(t, err)
	return c
}

func TestViews(t *testing.T) {
	views := Views(newConversation(t))
	require.Len(t, views, 4)

	assert.Equal(t, 1, views[0].Number)
	assert.False(t, views[0].Rateable)
	assert.True(t, views[2].Rateable)
	assert.True(t, views[2].Rated)
	assert.Equal(t, backend.FeedbackClarify, views[2].Feedback)
	assert.True(t, views[3].Message.Regenerated)
	assert.Equal(t, "message assistant regenerated", views[3].Classes())
	assert.Contains(t, string(views[2].Body), `<div class="math math-block" data-tex="\pi r^2">π r²</div>`)
	assert.Contains(t, string(views[2].Body), "<strong>every</strong>")
}

func TestBody_Escapes(t *testing.T) {
	got := string(Body("a <b> & $x<y$"))
	assert.Equal(t, `<span>a &lt;b&gt; &amp; </span><span class="math math-inline" data-tex="x&lt;y">x&lt;y</span>`, got)
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Document(&buf, "Math <chat>", newConversation(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Math &lt;chat&gt;</title>")
	assert.Contains(t, out, "Session session-abc123def")
	assert.Contains(t, out, ".math-block {")
	assert.Contains(t, out, "Area of a circle &lt;r&gt;?")
	assert.Contains(t, out, `<span class="rated">🔄 Clarify</span>`)
	assert.Contains(t, out, `id="m4"`)
	assert.Equal(t, 4, strings.Count(out, "<article "))
}
