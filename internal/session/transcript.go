package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/onagent/onagent/agent"
	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/jsonval"
)

// transcriptMessage is the JSONL-serializable projection of an
// agent.Message. agent.Message carries arena-backed jsonval.Value tool
// arguments, which don't survive encoding/json directly, so tool call
// arguments are flattened to their compact JSON text on the way out
// and re-parsed into a fresh arena on the way in.
type transcriptMessage struct {
	ID          string               `json:"id"`
	Role        string               `json:"role"`
	Content     string               `json:"content"`
	Thinking    string               `json:"thinking,omitempty"`
	TimestampMs int64                `json:"timestamp_ms"`
	ToolCalls   []transcriptToolCall `json:"tool_calls,omitempty"`
	ToolResults []transcriptResult   `json:"tool_results,omitempty"`
}

type transcriptToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type transcriptResult struct {
	ID         string `json:"id"`
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
}

// AppendMessage persists one transcript entry as a JSONL event.
func (s *Store) AppendMessage(sessionID string, msg agent.Message) error {
	return s.AppendEvent(sessionID, toTranscriptMessage(msg))
}

func toTranscriptMessage(msg agent.Message) transcriptMessage {
	out := transcriptMessage{
		ID:          msg.ID.String(),
		Role:        string(msg.Role),
		Content:     msg.Content,
		Thinking:    msg.Thinking,
		TimestampMs: msg.TimestampMs,
	}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, transcriptToolCall{
			ID:        tc.ID.String(),
			Name:      tc.Name,
			Arguments: json.RawMessage(jsonval.Serialize(tc.Arguments, jsonval.SerializeOptions{})),
		})
	}
	for _, tr := range msg.ToolResults {
		out.ToolResults = append(out.ToolResults, transcriptResult{
			ID:         tr.ID.String(),
			ToolCallID: tr.ToolCallID.String(),
			Content:    tr.Content,
			IsError:    tr.IsError,
		})
	}
	return out
}

// LoadTranscript reads a session's persisted messages back as raw
// transcript rows, ready for display or re-hydration into a fresh
// agent.Runner's working history.
func (s *Store) LoadTranscript(sessionID string) ([]transcriptMessage, error) {
	raw, err := s.LoadEvents(sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]transcriptMessage, 0, len(raw))
	for _, r := range raw {
		var m transcriptMessage
		if err := json.Unmarshal(r, &m); err != nil {
			return nil, fmt.Errorf("decode transcript row: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadMessages reads a session's persisted transcript and rehydrates it
// into agent.Message values suitable for Runner.Seed, reconstructing
// tool call arguments into jsonval.Value trees backed by a freshly allocated arena.
func (s *Store) LoadMessages(sessionID string) ([]agent.Message, *arena.Arena, error) {
	rows, err := s.LoadTranscript(sessionID)
	if err != nil {
		return nil, nil, err
	}

	a := arena.New(0)
	out := make([]agent.Message, 0, len(rows))
	for _, row := range rows {
		msg := agent.Message{
			Role:        agent.Role(row.Role),
			Content:     row.Content,
			Thinking:    row.Thinking,
			TimestampMs: row.TimestampMs,
		}
		if id, err := uuid.Parse(row.ID); err == nil {
			msg.ID = id
		}
		for _, tc := range row.ToolCalls {
			args, err := jsonval.Parse(a, tc.Arguments)
			if err != nil {
				args = jsonval.NewObject()
			}
			call := agent.ToolCall{Name: tc.Name, Arguments: args}
			if id, err := uuid.Parse(tc.ID); err == nil {
				call.ID = id
			}
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		for _, tr := range row.ToolResults {
			result := agent.ToolResult{Content: tr.Content, IsError: tr.IsError}
			if id, err := uuid.Parse(tr.ID); err == nil {
				result.ID = id
			}
			if id, err := uuid.Parse(tr.ToolCallID); err == nil {
				result.ToolCallID = id
			}
			msg.ToolResults = append(msg.ToolResults, result)
		}
		out = append(out, msg)
	}
	return out, a, nil
}
