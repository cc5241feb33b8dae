// Package agent implements the orchestrator loop: it prompts
// generation, demultiplexes the parsed response into text, thinking,
// and tool-call segments, dispatches tool calls through a
// host-supplied executor, and maintains the permanent and working
// transcripts across iterations.
package agent

import (
	"github.com/google/uuid"

	"github.com/onagent/onagent/jsonval"
)

// Role is the speaker of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Step is one state of the orchestrator's step indicator, reported via
// Config.OnStepChange.
type Step int

const (
	StepNone Step = iota
	StepGenerating
	StepThinking
	StepCallingTool
	StepWaitingForResult
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepGenerating:
		return "generating"
	case StepThinking:
		return "thinking"
	case StepCallingTool:
		return "calling_tool"
	case StepWaitingForResult:
		return "waiting_for_result"
	default:
		return "unknown"
	}
}

// ToolCall is a structured tool invocation extracted from a response
// segment: a name and a JSON argument object.
type ToolCall struct {
	ID        uuid.UUID
	Name      string
	Arguments *jsonval.Value
}

// ToolResult is the outcome of executing a ToolCall.
type ToolResult struct {
	ID         uuid.UUID
	ToolCallID uuid.UUID
	Content    string
	IsError    bool
}

// Message is one entry of the permanent or working transcript.
type Message struct {
	ID          uuid.UUID
	Role        Role
	Content     string
	TimestampMs int64

	ToolCalls   []ToolCall
	ToolResults []ToolResult
	Thinking    string

	// Image carries raw image bytes attached to a user message (the
	// supplemented agent_add_user_message_with_image path).
	Image []byte
}
