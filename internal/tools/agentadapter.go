package tools

import (
	"context"
	"sort"

	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/jsonval"
	"github.com/onagent/onagent/toolschema"
)

// NewToolExecFunc adapts a Runner bound to toolCtx into the
// orchestrator's agent.ToolExecFunc shape, bridging the arena-backed
// jsonval.Value argument tree the parser produces back into the
// json.RawMessage the existing Tool implementations decode.
func NewToolExecFunc(runner *Runner, toolCtx ToolContext) func(ctx context.Context, name string, arguments *jsonval.Value) (string, bool, error) {
	return func(ctx context.Context, name string, arguments *jsonval.Value) (string, bool, error) {
		raw := []byte(jsonval.Serialize(arguments, jsonval.SerializeOptions{}))

		result, err := runner.Run(ctx, name, raw, toolCtx)
		if err != nil {
			return err.Error(), true, nil
		}
		return result.Content, result.IsError, nil
	}
}

// NewSchemaFunc builds a toolschema.Registry from runner's tool set
// and returns the orchestrator's agent.SchemaFunc, serializing the
// registry as the OpenAI function-calling JSON schema array the
// system prompt's placeholder expects.
func NewSchemaFunc(a *arena.Arena, runner *Runner) func() string {
	registry := toolschema.NewRegistry()
	for _, name := range runner.ToolNames() {
		tool, ok := runner.Tools[name]
		if !ok {
			continue
		}
		registry.Add(toolschema.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  schemaToProperties(tool.Schema()),
		})
	}

	return func() string {
		return toolschema.SchemaJSON(a, registry, false)
	}
}

// schemaToProperties converts the existing Tool.Schema() shape
// ({"type":"object","properties":{...},"required":[...]}) into the
// toolschema DSL's PropertySchema list.
func schemaToProperties(schema map[string]any) []toolschema.PropertySchema {
	rawProps, _ := schema["properties"].(map[string]any)
	if len(rawProps) == 0 {
		return nil
	}

	required := map[string]bool{}
	switch req := schema["required"].(type) {
	case []string:
		for _, name := range req {
			required[name] = true
		}
	case []any:
		for _, name := range req {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(rawProps))
	for name := range rawProps {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]toolschema.PropertySchema, 0, len(names))
	for _, name := range names {
		propMap, _ := rawProps[name].(map[string]any)
		props = append(props, propertyFromMap(name, propMap, required[name]))
	}
	return props
}

func propertyFromMap(name string, propMap map[string]any, required bool) toolschema.PropertySchema {
	description, _ := propMap["description"].(string)
	typeName, _ := propMap["type"].(string)

	if enumRaw, ok := propMap["enum"]; ok {
		return toolschema.EnumProp(name, description, required, stringSlice(enumRaw))
	}

	switch typeName {
	case "integer":
		return toolschema.IntProp(name, description, required)
	case "number":
		return toolschema.NumberProp(name, description, required)
	case "boolean":
		return toolschema.BoolProp(name, description, required)
	case "array":
		itemsMap, _ := propMap["items"].(map[string]any)
		item := propertyFromMap("", itemsMap, false)
		return toolschema.ArrayProp(name, description, required, &item)
	case "object":
		nestedRaw, _ := propMap["properties"].(map[string]any)
		nestedNames := make([]string, 0, len(nestedRaw))
		for n := range nestedRaw {
			nestedNames = append(nestedNames, n)
		}
		sort.Strings(nestedNames)
		nested := make([]toolschema.PropertySchema, 0, len(nestedNames))
		for _, n := range nestedNames {
			nm, _ := nestedRaw[n].(map[string]any)
			nested = append(nested, propertyFromMap(n, nm, false))
		}
		return toolschema.ObjectProp(name, description, required, nested)
	default:
		return toolschema.StringProp(name, description, required)
	}
}

func stringSlice(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
