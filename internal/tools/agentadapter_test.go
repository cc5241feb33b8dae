package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/internal/testutil"
	"github.com/onagent/onagent/jsonval"
)

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "echoes its message argument" }
func (echoTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string", "description": "text to echo"},
		},
		"required": []string{"message"},
	}
}
func (echoTool) Run(ctx context.Context, input json.RawMessage, toolCtx ToolContext) (ToolResult, error) {
	var payload struct {
		Message string `json:"message"`
	}
	json.Unmarshal(input, &payload)
	return ToolResult{Content: payload.Message}, nil
}

func TestNewToolExecFuncDispatchesAndSerializesArguments(t *testing.T) {
	a := arena.New(0)
	runner := NewRunner([]Tool{echoTool{}})
	exec := NewToolExecFunc(runner, ToolContext{})

	args := jsonval.NewObject()
	args.ObjectSet(a, "message", jsonval.NewStringCopy(a, "hello"))

	content, isError, err := exec(context.Background(), "echo", args)
	testutil.RequireNoError(t, err, "no dispatch error")
	testutil.RequireTrue(t, !isError, "tool succeeded")
	testutil.RequireEqual(t, content, "hello", "argument round-tripped through jsonval serialization")
}

func TestNewToolExecFuncUnknownToolIsError(t *testing.T) {
	runner := NewRunner([]Tool{echoTool{}})
	exec := NewToolExecFunc(runner, ToolContext{})

	content, isError, err := exec(context.Background(), "missing", jsonval.NewObject())
	testutil.RequireNoError(t, err, "no dispatch error")
	testutil.RequireTrue(t, isError, "unknown tool reported as error")
	testutil.RequireStringContains(t, content, "missing", "error content names the tool")
}

func TestNewSchemaFuncEmitsFunctionCallingShape(t *testing.T) {
	a := arena.New(0)
	runner := NewRunner([]Tool{echoTool{}})
	schemaFn := NewSchemaFunc(a, runner)

	text := schemaFn()
	testutil.RequireStringContains(t, text, `"name":"echo"`, "tool name present")
	testutil.RequireStringContains(t, text, `"message"`, "argument property present")
	testutil.RequireStringContains(t, text, `"required":["message"]`, "required array present")
}
