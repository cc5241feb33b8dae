package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onagent/onagent/agent"
	"github.com/onagent/onagent/internal/testutil"
)

func TestToWireMessageMapsRoles(testingHandle *testing.T) {
	userMsg := toWireMessage(agent.Message{Role: agent.RoleUser, Content: "hi"})
	testutil.RequireEqual(testingHandle, userMsg.Role, "user", "user role preserved")
	testutil.RequireEqual(testingHandle, userMsg.Content, "hi", "user content preserved")

	toolMsg := toWireMessage(agent.Message{
		Role: agent.RoleTool,
		ToolResults: []agent.ToolResult{
			{Content: "file contents", IsError: false},
		},
	})
	testutil.RequireEqual(testingHandle, toolMsg.Role, "tool", "tool role preserved")
	testutil.RequireEqual(testingHandle, toolMsg.Content, "file contents", "tool result content surfaced")
}

func TestToWireMessageBuildsMultimodalContent(testingHandle *testing.T) {
	msg := toWireMessage(agent.Message{
		Role:    agent.RoleUser,
		Content: "what is this",
		Image:   []byte("fake-png-bytes"),
	})

	parts, ok := msg.Content.([]map[string]any)
	testutil.RequireTrue(testingHandle, ok, "multimodal content is a parts slice")
	testutil.RequireEqual(testingHandle, len(parts), 2, "text and image parts both present")
	testutil.RequireEqual(testingHandle, parts[0]["type"], "text", "first part is text")

	imagePart, ok := parts[1]["image_url"].(map[string]any)
	testutil.RequireTrue(testingHandle, ok, "second part carries image_url")
	url, _ := imagePart["url"].(string)
	testutil.RequireStringContains(testingHandle, url, "data:image/png;base64,", "image encoded as a data URL")
}

func TestAsGenerateFuncStreamsTokensAndReturnsText(testingHandle *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		events := []string{
			`{"choices":[{"index":0,"delta":{"role":"assistant"}}]}`,
			`{"choices":[{"index":0,"delta":{"content":"<tool_call"}}]}`,
			`{"choices":[{"index":0,"delta":{"content":">"}}]}`,
			`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		}
		for _, payload := range events {
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	generate := client.AsGenerateFunc("model-x")

	var tokens []string
	text, err := generate(context.Background(), []agent.Message{
		{Role: agent.RoleUser, Content: "hello"},
	}, "system prompt text", func(chunk []byte) bool {
		tokens = append(tokens, string(chunk))
		return true
	})

	testutil.RequireNoError(testingHandle, err, "generate succeeds")
	testutil.RequireEqual(testingHandle, text, "<tool_call>", "accumulated message content returned")
	testutil.RequireEqual(testingHandle, len(tokens), 2, "both content deltas forwarded to onToken")
}

func TestAsGenerateFuncStopsEarlyWhenOnTokenReturnsFalse(testingHandle *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		events := []string{
			`{"choices":[{"index":0,"delta":{"content":"a"}}]}`,
			`{"choices":[{"index":0,"delta":{"content":"b"}}]}`,
			`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		}
		for _, payload := range events {
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	generate := client.AsGenerateFunc("model-x")

	var calls int
	_, err := generate(context.Background(), nil, "", func(chunk []byte) bool {
		calls++
		return false
	})

	testutil.RequireNoError(testingHandle, err, "generate succeeds even when stopped early")
	testutil.RequireEqual(testingHandle, calls, 1, "onToken stops being invoked after returning false")
}

func TestAsGenerateFuncRecordsLastUsage(testingHandle *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		events := []string{
			`{"choices":[{"index":0,"delta":{"content":"hi"}}]}`,
			`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`,
		}
		for _, payload := range events {
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	generate := client.AsGenerateFunc("model-x")

	_, beforeOk := client.LastUsage()
	testutil.RequireTrue(testingHandle, !beforeOk, "no usage recorded before a generate call")

	_, err := generate(context.Background(), nil, "", func(chunk []byte) bool { return true })
	testutil.RequireNoError(testingHandle, err, "generate succeeds")

	usage, ok := client.LastUsage()
	testutil.RequireTrue(testingHandle, ok, "usage recorded after the stream completes")
	testutil.RequireEqual(testingHandle, usage.PromptTokens, 12, "prompt tokens captured")
	testutil.RequireEqual(testingHandle, usage.CompletionTokens, 4, "completion tokens captured")
}
