package agent

import (
	"context"

	"github.com/onagent/onagent/jsonval"
)

// GenerateFunc invokes the host's language model over messages with
// the given system prompt, forwarding each produced chunk through
// onToken. onToken returning false requests early termination of
// generation; the returned text is advisory only, since the
// orchestrator reconstructs the response from the bytes accumulated
// via onToken.
type GenerateFunc func(ctx context.Context, messages []Message, systemPrompt string, onToken func([]byte) bool) (string, error)

// ToolExecFunc dispatches a single tool call and returns its result
// content, an is_error flag, and an error for host-side failures
// unrelated to the tool's own success/failure (e.g. a dispatch
// transport fault).
type ToolExecFunc func(ctx context.Context, name string, arguments *jsonval.Value) (content string, isError bool, err error)

// SchemaFunc returns the current tool schema text embedded into the
// system prompt. The returned string need only be valid for the
// duration of the current iteration's prompt build.
type SchemaFunc func() string

const (
	defaultMaxIterations       = 10
	defaultMaxToolResultLength = 3000
)

// Config configures a Runner. Generate and ExecuteTool are required.
type Config struct {
	Generate    GenerateFunc
	ExecuteTool ToolExecFunc

	OnToken      func([]byte) bool
	OnToolCall   func(name string)
	OnStepChange func(step Step, toolName string)

	GetToolsSchema SchemaFunc

	MaxIterations       int
	MaxToolResultLength int

	UseJapanese        bool
	CustomSystemPrompt string
}
