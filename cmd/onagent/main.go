// Command onagent is the orchestrator's command-line front end: it
// loads provider and settings config, resolves or creates a session,
// builds a tool set, and dispatches either to a single-shot print-mode
// run or to the interactive TUI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/onagent/onagent/agent"
	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/internal/config"
	"github.com/onagent/onagent/internal/llm/openai"
	"github.com/onagent/onagent/internal/session"
	"github.com/onagent/onagent/internal/tools"
	"github.com/onagent/onagent/internal/tui"
)

// version tracks the onagent release reported by --version.
const version = "0.1.0"

// options holds the CLI flags onagent accepts. It is a deliberately
// narrow slice of its host CLI ancestor's flag surface: only what the
// orchestrator and its tool set actually consume.
type options struct {
	AddDirs             []string
	AllowedTools        []string
	DisallowedTools     []string
	Tools               []string
	AppendSystemPrompt  string
	SystemPrompt        string
	Continue            bool
	DangerousSkipPerms  bool
	DebugFile           string
	Japanese            bool
	MaxIterations       int
	MaxToolResultLength int
	Model               string
	PermissionMode      string
	Print               bool
	Resume              string
	SessionID           string
	Settings            string
	SettingSources      []string
	Version             bool
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "onagent [prompt]",
		Short: "onagent - starts an interactive session by default, use -p/--print for non-interactive output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Printf("%s\n", version)
				return nil
			}
			return runRoot(cmd, opts, args)
		},
	}
	rootCmd.Args = cobra.ArbitraryArgs

	applyFlags(rootCmd.Flags(), opts)
	rootCmd.AddCommand(doctorCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags defines the CLI flag surface.
func applyFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringSliceVar(&opts.AddDirs, "add-dir", nil, "Additional directories to allow tool access to")
	flags.StringSliceVar(&opts.AllowedTools, "allowedTools", nil, "Comma or space-separated list of tool names to allow")
	flags.StringSliceVar(&opts.DisallowedTools, "disallowedTools", nil, "Comma or space-separated list of tool names to deny")
	flags.StringSliceVar(&opts.Tools, "tools", nil, `Tool set selection: "" disables all tools, "default" uses the built-in set, or a name list`)
	flags.StringVar(&opts.AppendSystemPrompt, "append-system-prompt", "", "Append extra instructions to the default system prompt")
	flags.StringVar(&opts.SystemPrompt, "system-prompt", "", "Custom instructions appended after the built-in system prompt template")
	flags.BoolVarP(&opts.Continue, "continue", "c", false, "Continue the most recent conversation in the current directory")
	flags.BoolVar(&opts.DangerousSkipPerms, "dangerously-skip-permissions", false, "Bypass all permission checks")
	flags.StringVar(&opts.DebugFile, "debug-file", "", "Write debug logs to a file path (accepted, not yet implemented)")
	flags.BoolVar(&opts.Japanese, "japanese", false, "Use the Japanese system prompt template")
	flags.IntVar(&opts.MaxIterations, "max-iterations", 0, "Maximum number of orchestrator iterations per run")
	flags.IntVar(&opts.MaxToolResultLength, "max-tool-result-length", 0, "Maximum bytes kept from a tool result before truncation")
	flags.StringVarP(&opts.Model, "model", "m", "", "Model alias or full provider model name")
	flags.StringVar(&opts.PermissionMode, "permission-mode", "default", "Permission mode: default, acceptEdits, dontAsk, delegate, bypassPermissions, plan")
	flags.BoolVarP(&opts.Print, "print", "p", false, "Print the response and exit, instead of starting the interactive TUI")
	flags.StringVarP(&opts.Resume, "resume", "r", "", "Resume a conversation by session ID")
	flags.StringVar(&opts.SessionID, "session-id", "", "Use a specific session ID for the conversation (must be a valid UUID)")
	flags.StringVar(&opts.Settings, "settings", "", "Path to a settings JSON file, or an inline JSON string")
	flags.StringSliceVar(&opts.SettingSources, "setting-sources", nil, "Comma-separated settings sources to load: user, project, local")
	flags.BoolVarP(&opts.Version, "version", "v", false, "Print the version and exit")
}

// doctorCommand checks that a provider config is present and valid.
func doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that onagent's provider config is present and valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ProviderConfigPath()
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("provider config missing at %s", path)
			}
			if mode := info.Mode().Perm(); mode&0o077 != 0 {
				return fmt.Errorf("provider config permissions too open: %s", mode)
			}
			if _, err := config.LoadProviderConfig(path); err != nil {
				return fmt.Errorf("provider config invalid: %w", err)
			}
			fmt.Fprintf(os.Stdout, "OK: provider config %s\n", path)
			return nil
		},
	}
}

// runRoot wires config, session, tools, and the generation adapter
// together, then dispatches to print or interactive mode.
func runRoot(cmd *cobra.Command, opts *options, args []string) error {
	if opts.SessionID != "" {
		if _, err := uuid.Parse(opts.SessionID); err != nil {
			return errors.New("--session-id must be a valid UUID")
		}
	}
	if opts.DebugFile != "" {
		fmt.Fprintln(os.Stderr, "warning: --debug-file is accepted but not yet implemented in onagent")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get cwd: %w", err)
	}

	providerCfg, err := config.LoadProviderConfig("")
	if err != nil {
		if errors.Is(err, config.ErrProviderConfigMissing) {
			path, _ := config.ProviderConfigPath()
			return fmt.Errorf("provider config missing; create %s", path)
		}
		return fmt.Errorf("load provider config: %w", err)
	}

	settingSources := splitListArgs(opts.SettingSources)
	settings, err := config.LoadClaudeSettings(cwd, settingSources, opts.Settings)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	model := config.ResolveModel(providerCfg, opts.Model, settings.Model)

	permissionMode := parsePermissionMode(opts.PermissionMode)
	if opts.DangerousSkipPerms {
		permissionMode = tools.PermissionBypass
	}

	store, err := session.NewStore()
	if err != nil {
		return err
	}

	sessionID, seedMessages, err := resolveSession(store, cwd, opts)
	if err != nil {
		return err
	}

	rootDirs := append([]string{cwd}, opts.AddDirs...)
	sandbox := tools.NewSandbox(rootDirs)

	toolRunner, err := buildTools(opts, permissionMode)
	if err != nil {
		return err
	}

	const taskMaxDepth = 2
	taskManager := tools.NewTaskManager()
	client := openai.NewClient(providerCfg.APIBaseURL, providerCfg.APIKey, time.Duration(providerCfg.TimeoutMS)*time.Millisecond)
	schemaArena := arena.New(0)
	schemaFunc := tools.NewSchemaFunc(schemaArena, toolRunner)

	// newCfg builds the orchestrator config for one run at the given
	// task-nesting depth: each depth gets its own ToolContext so the
	// Task tool's executor can recurse up to taskMaxDepth.
	var newCfg func(depth int) agent.Config
	newCfg = func(depth int) agent.Config {
		toolCtx := tools.ToolContext{
			Sandbox:      sandbox,
			CWD:          cwd,
			SessionID:    sessionID,
			Store:        store,
			TaskManager:  taskManager,
			TaskDepth:    depth,
			TaskMaxDepth: taskMaxDepth,
		}
		if depth < taskMaxDepth {
			toolCtx.TaskExecutor = buildTaskExecutor(newCfg, depth)
		}
		return agent.Config{
			Generate:            client.AsGenerateFunc(model),
			ExecuteTool:         tools.NewToolExecFunc(toolRunner, toolCtx),
			GetToolsSchema:      schemaFunc,
			MaxIterations:       opts.MaxIterations,
			MaxToolResultLength: opts.MaxToolResultLength,
			UseJapanese:         opts.Japanese,
			CustomSystemPrompt:  resolveSystemPrompt(opts),
		}
	}

	cfg := newCfg(0)

	if opts.Print {
		return runPrintMode(cmd, opts, cfg, args, store, sessionID, seedMessages, client, providerCfg, model)
	}
	return tui.Run(cfg, store, sessionID, seedMessages)
}

// resolveSystemPrompt joins --system-prompt and --append-system-prompt
// (in that order) into the CustomSystemPrompt value agent.Runner
// appends to its built-in template; neither flag replaces the template.
func resolveSystemPrompt(opts *options) string {
	var parts []string
	if strings.TrimSpace(opts.SystemPrompt) != "" {
		parts = append(parts, opts.SystemPrompt)
	}
	if strings.TrimSpace(opts.AppendSystemPrompt) != "" {
		parts = append(parts, opts.AppendSystemPrompt)
	}
	return strings.Join(parts, "\n\n")
}

// resolveSession determines the session id to use and, for --continue
// or --resume, rehydrates its persisted transcript for Runner.Seed.
func resolveSession(store *session.Store, cwd string, opts *options) (string, []agent.Message, error) {
	projectHash := session.ProjectHash(cwd)

	baseSessionID := opts.Resume
	if baseSessionID == "" && opts.Continue {
		lastID, err := store.LoadLastSession(projectHash)
		if err == nil && lastID != "" {
			baseSessionID = lastID
		}
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		if baseSessionID != "" {
			sessionID = baseSessionID
		} else {
			sessionID = uuid.New().String()
		}
	}

	var seed []agent.Message
	if baseSessionID != "" {
		messages, _, err := store.LoadMessages(baseSessionID)
		if err != nil && !os.IsNotExist(err) {
			return "", nil, fmt.Errorf("load session history: %w", err)
		}
		seed = messages
	}

	if err := store.SaveLastSession(projectHash, sessionID); err != nil {
		return "", nil, fmt.Errorf("save last session: %w", err)
	}

	return sessionID, seed, nil
}

// buildTools constructs the filtered tool runner for the session.
// Plan mode runs with no tools available.
func buildTools(opts *options, mode tools.PermissionMode) (*tools.Runner, error) {
	if mode == tools.PermissionPlan {
		return tools.NewRunner(nil), nil
	}

	toolSet := tools.DefaultTools()

	toolsArg := splitListArgs(opts.Tools)
	if opts.Tools == nil {
		toolsArg = []string{"default"}
	}
	if len(toolsArg) == 0 || (len(toolsArg) == 1 && strings.TrimSpace(toolsArg[0]) == "") {
		return tools.NewRunner(nil), nil
	}
	if len(toolsArg) != 1 || !strings.EqualFold(strings.TrimSpace(toolsArg[0]), "default") {
		filtered, err := tools.FilterTools(toolSet, normalizeToolList(toolsArg), nil)
		if err != nil {
			return nil, err
		}
		toolSet = filtered
	}

	allowed := normalizeToolList(splitListArgs(opts.AllowedTools))
	disallowed := normalizeToolList(splitListArgs(opts.DisallowedTools))
	if len(allowed) > 0 || len(disallowed) > 0 {
		filtered, err := tools.FilterTools(toolSet, allowed, disallowed)
		if err != nil {
			return nil, err
		}
		toolSet = filtered
	}

	return tools.NewRunner(toolSet), nil
}

// buildTaskExecutor wires the Task tool to a nested orchestrator run,
// supplementing agent_task_tool_execute: each subtask gets its own
// Runner at depth+1, seeded with the parent's system prompt unless the
// request supplies its own. The subtask runs on the parent's model with
// request.Prompt as its only user message; request.Model and
// request.Messages are not used.
func buildTaskExecutor(newCfg func(depth int) agent.Config, depth int) tools.TaskExecutor {
	return tools.TaskExecutorFunc(func(ctx context.Context, request tools.TaskRequest) (tools.TaskResult, error) {
		subCfg := newCfg(depth + 1)
		if prompt := strings.TrimSpace(request.SystemPrompt); prompt != "" {
			subCfg.CustomSystemPrompt = prompt
		}
		if request.MaxTurns > 0 {
			subCfg.MaxIterations = request.MaxTurns
		}

		runner, err := agent.New(subCfg)
		if err != nil {
			return tools.TaskResult{}, err
		}
		runner.AddUserMessage(request.Prompt)

		result := runner.Run(ctx)
		if result.Err != nil && result.Err != agent.ErrMaxIterations {
			return tools.TaskResult{}, result.Err
		}
		return tools.TaskResult{
			Output:   result.Response,
			Metadata: map[string]any{"iterations": result.Iterations},
		}, nil
	})
}

// runPrintMode issues a single orchestrator run from args/stdin and
// prints the final response to stdout.
func runPrintMode(cmd *cobra.Command, opts *options, cfg agent.Config, args []string, store *session.Store, sessionID string, seed []agent.Message, client *openai.Client, providerCfg *config.ProviderConfig, model string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	runner, err := agent.New(cfg)
	if err != nil {
		return err
	}
	runner.Seed(seed)
	runner.AddUserMessage(prompt)

	result := runner.Run(context.Background())

	for _, msg := range runner.Messages() {
		if err := store.AppendMessage(sessionID, msg); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}

	if usage, ok := client.LastUsage(); ok {
		cost, costKnown := config.EstimateCost(providerCfg, model, usage.PromptTokens, usage.CompletionTokens)
		event := session.UsageEvent{
			Model:            model,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			CostUSD:          cost,
			CostKnown:        costKnown,
			TimestampMs:      time.Now().UnixMilli(),
		}
		if err := store.AppendUsage(sessionID, event); err != nil {
			return fmt.Errorf("persist usage: %w", err)
		}
		if costKnown {
			fmt.Fprintf(os.Stderr, "tokens: %d in / %d out (est. $%.4f)\n", usage.PromptTokens, usage.CompletionTokens, cost)
		} else {
			fmt.Fprintf(os.Stderr, "tokens: %d in / %d out\n", usage.PromptTokens, usage.CompletionTokens)
		}
	}

	if result.Err != nil && result.Err != agent.ErrMaxIterations {
		return result.Err
	}
	fmt.Fprintln(os.Stdout, result.Response)
	return nil
}

// readPrompt joins CLI arguments, falling back to stdin when none are given.
func readPrompt(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := readAllStdin()
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(data)
	if prompt == "" {
		return "", errors.New("no prompt provided; pass one as an argument or pipe it on stdin")
	}
	return prompt, nil
}

func readAllStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return b.String(), nil
}

// splitList splits a comma- or space-separated value into trimmed parts.
func splitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
	var list []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// splitListArgs flattens multiple repeatable list flags into one list.
func splitListArgs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	var combined []string
	for _, value := range values {
		combined = append(combined, splitList(value)...)
	}
	return combined
}

// normalizeToolList maps lowercase/legacy CLI tool aliases to their
// canonical built-in tool names.
func normalizeToolList(names []string) []string {
	var normalized []string
	for _, name := range names {
		switch strings.ToLower(name) {
		case "read", "view":
			normalized = append(normalized, "Read")
		case "edit":
			normalized = append(normalized, "Edit")
		case "write", "replace":
			normalized = append(normalized, "Write")
		case "listdir", "list-dir", "list_dir", "ls":
			normalized = append(normalized, "ListDir")
		case "bash":
			normalized = append(normalized, "Bash")
		case "glob":
			normalized = append(normalized, "Glob")
		case "grep":
			normalized = append(normalized, "Grep")
		case "webfetch", "web-fetch", "web_fetch":
			normalized = append(normalized, "WebFetch")
		case "todowrite", "todo-write", "todo_write", "todo":
			normalized = append(normalized, "TodoWrite")
		default:
			normalized = append(normalized, name)
		}
	}
	return normalized
}

// parsePermissionMode translates a CLI value into a tools.PermissionMode.

func parsePermissionMode(value string) tools.PermissionMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "acceptedits":
		return tools.PermissionAcceptEdits
	case "dontask":
		return tools.PermissionDontAsk
	case "delegate":
		return tools.PermissionDelegate
	case "bypasspermissions":
		return tools.PermissionBypass
	case "plan":
		return tools.PermissionPlan
	default:
		return tools.PermissionDefault
	}
}
