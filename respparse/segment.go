// Package respparse recognizes the three response framings a model
// may emit — <tool_call> tags, <think>/<thinking> tags, and bare JSON
// tool calls — via both a one-shot batch parser and an incremental
// streaming state machine.
package respparse

import (
	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/jsonval"
)

// SegmentKind tags the variant a Segment holds.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentToolCall
	SegmentThinking
)

// Segment is one unit of parsed model output.
type Segment struct {
	Kind SegmentKind

	// Text holds the trimmed text for SegmentText, or the trimmed
	// reasoning content for SegmentThinking.
	Text string

	// ToolName and ToolArguments are populated for SegmentToolCall.
	ToolName      string
	ToolArguments *jsonval.Value
}

const (
	tagToolCallOpen   = "<tool_call>"
	tagToolCallClose  = "</tool_call>"
	tagThinkOpen      = "<think>"
	tagThinkClose     = "</think>"
	tagThinkingOpen   = "<thinking>"
	tagThinkingClose  = "</thinking>"
	maxTagBufferBytes = 15
)

// parsedToolCall is the intermediate result of decoding a `{"name":
// ..., "arguments": {...}}` JSON object, before it is folded into a
// Segment.
type parsedToolCall struct {
	Name      string
	Arguments *jsonval.Value
}

// parseToolCallJSON parses raw as a JSON object and extracts the
// "name"/"arguments" shape a tool-call frame requires. A missing
// "arguments" field defaults to an empty object, matching the source
// behavior.
func parseToolCallJSON(a *arena.Arena, raw []byte) *parsedToolCall {
	if len(raw) == 0 {
		return nil
	}
	v, err := jsonval.Parse(a, raw)
	if err != nil || v.Kind() != jsonval.Object {
		return nil
	}

	nameVal, ok := v.ObjectGet("name")
	if !ok || nameVal.Kind() != jsonval.String {
		return nil
	}

	argsVal, ok := v.ObjectGet("arguments")
	if !ok {
		argsVal = jsonval.NewObject()
	}

	return &parsedToolCall{Name: nameVal.GetString(), Arguments: argsVal}
}
