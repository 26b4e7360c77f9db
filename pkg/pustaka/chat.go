package pustaka

import (
	"context"
	"time"

	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
)

// Chat answers one visitor message. history holds the earlier turns, oldest
// first. Chat never fails: pipeline errors come back as a Reply of type "error".
func (c *Client) Chat(ctx context.Context, message string, history ...Turn) Reply {
	start := time.Now()

	turns := make([]domchat.Turn, len(history))
	for i, t := range history {
		turns[i] = domchat.Turn{Text: t.Text, Sender: t.Sender}
	}
	resp := c.chatSvc.Respond(ctx, message, turns)
	c.obs.observe("chat", start, nil)

	return Reply{
		Text:       resp.Text,
		Type:       string(resp.Type),
		Confidence: resp.Confidence,
	}
}
