package agent

import "fmt"

// System prompt templates, carried verbatim in shape from
// original_source/CAgentLib/src/agent_orchestrator.c's SYSTEM_PROMPT_EN
// and SYSTEM_PROMPT_JA: a fixed preamble, the literal tool-call framing
// example, and a %s placeholder for the schema text.
const systemPromptEN = `You are a helpful AI assistant. You have access to various tools to help accomplish tasks.

When you need to use a tool, output a tool call in this format:
<tool_call>
{"name": "tool_name", "arguments": {"arg1": "value1"}}
</tool_call>

Available tools:
%s
`

const systemPromptJA = `あなたは便利なAIアシスタントです。タスクを達成するためにさまざまなツールを使用できます。

ツールを使用する必要がある場合は、次の形式でツール呼び出しを出力してください：
<tool_call>
{"name": "ツール名", "arguments": {"引数1": "値1"}}
</tool_call>

利用可能なツール:
%s
`

// buildSystemPrompt selects the English or Japanese template, embeds
// the schema text, and appends the custom suffix if one was
// configured.
func (r *Runner) buildSystemPrompt(schema string) string {
	template := systemPromptEN
	if r.cfg.UseJapanese {
		template = systemPromptJA
	}

	prompt := fmt.Sprintf(template, schema)
	if r.cfg.CustomSystemPrompt != "" {
		prompt += "\n\n" + r.cfg.CustomSystemPrompt
	}
	return prompt
}
