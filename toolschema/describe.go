package toolschema

import "github.com/onagent/onagent/strutil"

// ToolDescription renders a tool's parameters as a Markdown blurb, in
// English or Japanese. Used for the human-facing help surface rather
// than the JSON schema consumed by a model.
func ToolDescription(tool ToolDefinition, japanese bool) string {
	b := strutil.NewBuilder(256)
	b.Writef("### %s\n", tool.Name)
	if tool.Description != "" {
		b.Writef("%s\n\n", tool.Description)
	}

	if len(tool.Parameters) == 0 {
		return b.String()
	}

	if japanese {
		b.WriteString("**パラメータ:**\n")
	} else {
		b.WriteString("**Parameters:**\n")
	}

	for _, prop := range tool.Parameters {
		b.Writef("- `%s` (%s)", prop.Name, prop.Type.String())
		if prop.Required {
			if japanese {
				b.WriteString(" *必須*")
			} else {
				b.WriteString(" *required*")
			}
		}
		if prop.Description != "" {
			b.Writef(": %s", prop.Description)
		}
		if len(prop.EnumValues) > 0 {
			b.WriteString(" [")
			for i, v := range prop.EnumValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.Writef("%q", v)
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RegistryDescription renders every registered tool's description
// joined under a header, English or Japanese.
func RegistryDescription(r *Registry, japanese bool) string {
	b := strutil.NewBuilder(2048)
	if japanese {
		b.WriteString("# 利用可能なツール\n\n")
	} else {
		b.WriteString("# Available Tools\n\n")
	}
	if r == nil {
		return b.String()
	}
	for _, tool := range r.Tools() {
		b.WriteString(ToolDescription(tool, japanese))
		b.WriteString("\n")
	}
	return b.String()
}
