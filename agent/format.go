package agent

import (
	"strings"

	"github.com/onagent/onagent/jsonval"
)

// FormatToolCall renders a human-readable summary of a tool call,
// grounded in agent_format_tool_call: a "Tool: <name>" header followed
// by one "  - key: value" line per argument when the arguments are a
// JSON object.
func FormatToolCall(call ToolCall, japanese bool) string {
	var b strings.Builder

	if japanese {
		b.WriteString("ツール: ")
	} else {
		b.WriteString("Tool: ")
	}
	b.WriteString(call.Name)

	if call.Arguments != nil && call.Arguments.Kind() == jsonval.Object {
		b.WriteByte('\n')
		if japanese {
			b.WriteString("引数:\n")
		} else {
			b.WriteString("Arguments:\n")
		}
		for _, key := range call.Arguments.ObjectKeys() {
			value, _ := call.Arguments.ObjectGet(key)
			b.WriteString("  - ")
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(jsonval.Serialize(value, jsonval.SerializeOptions{}))
			b.WriteByte('\n')
		}
	}

	return b.String()
}
