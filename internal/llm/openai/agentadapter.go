package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/onagent/onagent/agent"
)

// AsGenerateFunc adapts Client into the orchestrator's agent.GenerateFunc
// shape: messages are translated to the wire Message format, the
// system prompt (schema placeholder already substituted by the
// caller) is prepended, and streamed content deltas are forwarded raw
// to onToken as they arrive. Tool calls are not sent through the
// native tool_calls mechanism; the model is expected to emit
// <tool_call> frames as plain content, per the schema embedded in
// systemPrompt.
func (c *Client) AsGenerateFunc(model string) agent.GenerateFunc {
	return func(ctx context.Context, messages []agent.Message, systemPrompt string, onToken func([]byte) bool) (string, error) {
		wireMessages := make([]Message, 0, len(messages)+1)
		if systemPrompt != "" {
			wireMessages = append(wireMessages, Message{Role: "system", Content: systemPrompt})
		}
		for _, m := range messages {
			wireMessages = append(wireMessages, toWireMessage(m))
		}

		req := &ChatRequest{
			Model:    model,
			Messages: wireMessages,
		}

		acc := NewStreamAccumulator()
		stopped := false

		_, err := c.ChatCompletionsStream(ctx, req, func(event StreamResponse) error {
			if applyErr := acc.Apply(event); applyErr != nil {
				return applyErr
			}
			for _, choice := range event.Choices {
				if choice.Index != 0 || choice.Delta.Content == "" {
					continue
				}
				if stopped {
					continue
				}
				if onToken != nil && !onToken([]byte(choice.Delta.Content)) {
					stopped = true
				}
			}
			return nil
		})
		usage, hasUsage := acc.Usage()
		c.setLastUsage(usage, hasUsage)
		if err != nil {
			return "", err
		}

		return acc.Message().contentString(), nil
	}
}

// contentString returns Content as a string, or "" if unset. Content
// is always a plain string for responses produced by ChatCompletionsStream,
// which never requests multimodal output.
func (m Message) contentString() string {
	s, _ := m.Content.(string)
	return s
}

// toWireMessage converts one orchestrator transcript entry into the
// wire format. Tool messages carry their result content directly;
// assistant/user messages carry Content, with an attached Image
// encoded as a data URL multimodal part.
func toWireMessage(m agent.Message) Message {
	role := string(m.Role)

	if m.Role == agent.RoleTool {
		content := ""
		if len(m.ToolResults) > 0 {
			content = m.ToolResults[0].Content
		} else {
			content = m.Content
		}
		return Message{Role: role, Content: content}
	}

	if len(m.Image) > 0 {
		return Message{Role: role, Content: multimodalContent(m.Content, m.Image)}
	}

	return Message{Role: role, Content: m.Content}
}

// multimodalContent builds the OpenAI vision content-parts array for a
// message carrying both text and an inline image.
func multimodalContent(text string, image []byte) []map[string]any {
	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(image))

	parts := make([]map[string]any, 0, 2)
	if text != "" {
		parts = append(parts, map[string]any{"type": "text", "text": text})
	}
	parts = append(parts, map[string]any{
		"type":      "image_url",
		"image_url": map[string]any{"url": dataURL},
	})
	return parts
}
