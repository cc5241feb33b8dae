package agent

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/respparse"
	"github.com/onagent/onagent/strutil"
)

// RunResult summarizes a completed (or aborted) Run.
type RunResult struct {
	// Response is the final assistant message's content: populated on
	// success and on ErrMaxIterations, left empty otherwise (matching
	// process_iteration/agent_run_streaming, which only builds the
	// response view for those two outcomes).
	Response string
	Thinking string

	Iterations     int
	ToolCalls      []ToolCall
	ToolCallsCount int

	Err error
}

// Runner drives the iteration loop described in spec.md §4.6.3 over
// one conversation. It owns an arena shared by every JSON value parsed
// during the conversation's lifetime.
type Runner struct {
	cfg   Config
	arena *arena.Arena

	permanent []Message
	working   []Message

	// thinking accumulates every iteration's thinking text for the
	// current run, mirroring agent_orchestrator.c's state->thinking_content
	// (cleared once per run, not per iteration).
	thinking strings.Builder

	shouldStop atomic.Bool
	step       Step
}

// New constructs a Runner. It fails with ErrInvalidArgument if
// Generate or ExecuteTool is nil, mirroring agent_init's validation.
func New(cfg Config) (*Runner, error) {
	if cfg.Generate == nil || cfg.ExecuteTool == nil {
		return nil, ErrInvalidArgument
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.MaxToolResultLength <= 0 {
		cfg.MaxToolResultLength = defaultMaxToolResultLength
	}

	return &Runner{
		cfg:   cfg,
		arena: arena.New(0),
	}, nil
}

// AddUserMessage appends a user message to both the permanent and
// working transcripts.
func (r *Runner) AddUserMessage(content string) {
	r.addUserMessage(content, nil)
}

// AddUserMessageWithImage attaches image bytes to a user message,
// supplementing agent_add_user_message_with_image.
func (r *Runner) AddUserMessageWithImage(content string, image []byte) {
	r.addUserMessage(content, image)
}

func (r *Runner) addUserMessage(content string, image []byte) {
	msg := Message{
		ID:          strutil.NewV4(),
		Role:        RoleUser,
		Content:     content,
		Image:       image,
		TimestampMs: time.Now().UnixMilli(),
	}
	r.permanent = append(r.permanent, msg)
	r.working = append(r.working, msg)
}

// Messages returns a copy of the permanent transcript.
func (r *Runner) Messages() []Message {
	out := make([]Message, len(r.permanent))
	copy(out, r.permanent)
	return out
}

// Seed preloads a resumed conversation's history into both the
// permanent and working transcripts, ahead of the next AddUserMessage.
// It must be called before the first Run.
func (r *Runner) Seed(messages []Message) {
	r.permanent = append(r.permanent, messages...)
	r.working = append(r.working, messages...)
}

// IsProcessing reports whether a Run is currently underway.
func (r *Runner) IsProcessing() bool {
	return r.step != StepNone
}

// CurrentStep reports the orchestrator's current step.
func (r *Runner) CurrentStep() Step {
	return r.step
}

// Stop requests cancellation of an in-flight Run. It is observed
// inside the token callback and at iteration boundaries; a tool
// already executing synchronously runs to completion.
func (r *Runner) Stop() {
	r.shouldStop.Store(true)
}

func (r *Runner) reportStep(step Step, toolName string) {
	r.step = step
	if r.cfg.OnStepChange != nil {
		r.cfg.OnStepChange(step, toolName)
	}
}

// Run drives the iteration loop to completion, cancellation, or the
// iteration cap.
func (r *Runner) Run(ctx context.Context) RunResult {
	r.shouldStop.Store(false)
	r.thinking.Reset()

	result := RunResult{}
	hasToolCall := true

	var lastAssistant *Message

	for hasToolCall && result.Iterations < r.cfg.MaxIterations {
		result.Iterations++

		assistant, turnHasToolCall, err := r.runOneIteration(ctx, &result)
		hasToolCall = turnHasToolCall

		if err != nil {
			result.Err = err
			r.reportStep(StepNone, "")
			return result
		}
		if r.shouldStop.Load() {
			result.Err = ErrCancelled
			r.reportStep(StepNone, "")
			return result
		}
		if assistant != nil {
			lastAssistant = assistant
		}
	}

	if hasToolCall {
		result.Err = ErrMaxIterations
	}

	if (result.Err == nil || result.Err == ErrMaxIterations) && lastAssistant != nil {
		final := *lastAssistant
		final.ToolCalls = result.ToolCalls
		final.Thinking = r.thinking.String()

		result.Response = final.Content
		result.Thinking = final.Thinking
		r.permanent = append(r.permanent, final)
	}

	r.reportStep(StepNone, "")
	return result
}

// runOneIteration runs steps 1-4 of spec.md §4.6.3: builds the system
// prompt, generates, batch-parses the response, dispatches each
// tool-call segment, and appends the turn's assistant message to the
// working transcript. It returns the pushed assistant message (nil if
// none was pushed), whether the turn produced a tool call, and any
// fatal error.
func (r *Runner) runOneIteration(ctx context.Context, result *RunResult) (*Message, bool, error) {
	r.reportStep(StepGenerating, "")

	schema := ""
	if r.cfg.GetToolsSchema != nil {
		schema = r.cfg.GetToolsSchema()
	}
	systemPrompt := r.buildSystemPrompt(schema)

	raw, genErr := r.generate(ctx, systemPrompt)
	if genErr != nil {
		return nil, false, genErr
	}
	if r.shouldStop.Load() {
		return nil, false, nil
	}

	segments := respparse.ParseBatch(r.arena, []byte(raw))

	var textParts []string
	var thinkParts []string
	var turnToolCalls []ToolCall
	hasToolCall := false

	for _, seg := range segments {
		switch seg.Kind {
		case respparse.SegmentText:
			if seg.Text != "" {
				textParts = append(textParts, seg.Text)
			}

		case respparse.SegmentThinking:
			if seg.Text != "" {
				thinkParts = append(thinkParts, seg.Text)
			}

		case respparse.SegmentToolCall:
			hasToolCall = true

			if r.cfg.OnToolCall != nil {
				r.cfg.OnToolCall(seg.ToolName)
			}

			tc := ToolCall{ID: strutil.NewV4(), Name: seg.ToolName, Arguments: seg.ToolArguments}
			turnToolCalls = append(turnToolCalls, tc)
			result.ToolCalls = append(result.ToolCalls, tc)
			result.ToolCallsCount++

			tr, err := r.executeTool(ctx, tc)
			if err != nil {
				return nil, hasToolCall, err
			}

			toolMsg := Message{
				ID:          strutil.NewV4(),
				Role:        RoleTool,
				Content:     tr.Content,
				ToolResults: []ToolResult{tr},
				TimestampMs: time.Now().UnixMilli(),
			}
			r.working = append(r.working, toolMsg)
		}
	}

	turnText := strings.Join(textParts, " ")
	turnThinking := strings.Join(thinkParts, " ")
	if turnThinking != "" {
		if r.thinking.Len() > 0 {
			r.thinking.WriteByte(' ')
		}
		r.thinking.WriteString(turnThinking)
	}

	// process_iteration only appends the assistant message when it
	// carries text, or the turn produced no tool call at all.
	if turnText == "" && hasToolCall {
		return nil, hasToolCall, nil
	}

	assistant := Message{
		ID:          strutil.NewV4(),
		Role:        RoleAssistant,
		Content:     turnText,
		Thinking:    turnThinking,
		ToolCalls:   turnToolCalls,
		TimestampMs: time.Now().UnixMilli(),
	}
	r.working = append(r.working, assistant)
	return &assistant, hasToolCall, nil
}

// generate invokes the host generator, accumulating every chunk and
// latching into StepThinking the moment the accumulated response
// contains a <tool_call> opening tag, whether or not its closing tag
// has arrived yet. The raw chunk (not reparsed text) is forwarded to
// on_token only while no tool call has been seen.
func (r *Runner) generate(ctx context.Context, systemPrompt string) (string, error) {
	var accumulator strings.Builder
	detectedToolCall := false

	onToken := func(chunk []byte) bool {
		if r.shouldStop.Load() {
			return false
		}

		accumulator.Write(chunk)

		if !detectedToolCall {
			acc := []byte(accumulator.String())
			if respparse.HasIncompleteToolCall(acc) || respparse.HasToolCall(acc) {
				detectedToolCall = true
				r.reportStep(StepThinking, "")
			}
		}

		if !detectedToolCall && r.cfg.OnToken != nil {
			return r.cfg.OnToken(chunk)
		}
		return true
	}

	_, err := r.cfg.Generate(ctx, r.working, systemPrompt, onToken)
	return accumulator.String(), err
}

func (r *Runner) executeTool(ctx context.Context, tc ToolCall) (ToolResult, error) {
	r.reportStep(StepCallingTool, tc.Name)

	content, isError, err := r.cfg.ExecuteTool(ctx, tc.Name, tc.Arguments)
	if err != nil {
		// ToolExecFunc's error return has no C counterpart (execute_tool
		// there only yields is_error); treat a non-nil err as a host-side
		// dispatch failure distinct from a tool's own is_error outcome.
		return ToolResult{}, fmt.Errorf("%w: %v", ErrCallbackFailed, err)
	}

	content = truncateToolResult(content, r.cfg.MaxToolResultLength)

	r.reportStep(StepWaitingForResult, "")

	return ToolResult{
		ID:         strutil.NewV4(),
		ToolCallID: tc.ID,
		Content:    content,
		IsError:    isError,
	}, nil
}

// truncateToolResult mirrors agent_truncate_text: results over maxLen
// bytes are cut to a complete UTF-8 boundary at maxLen-3 and a visible
// "..." marker is appended.
func truncateToolResult(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}

	limit := maxLen - 3
	if limit < 0 {
		limit = 0
	}
	if limit > len(content) {
		limit = len(content)
	}

	boundary := strutil.CompleteBoundary([]byte(content)[:limit])
	return content[:boundary] + "..."
}
