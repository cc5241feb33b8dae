package toolschema

import (
	"testing"

	"github.com/onagent/onagent/internal/testutil"
)

func TestToolDescriptionIncludesRequiredMarker(t *testing.T) {
	tool := ToolDefinition{
		Name:        "lookup",
		Description: "Look something up",
		Parameters:  []PropertySchema{StringProp("query", "the query", true)},
	}
	desc := ToolDescription(tool, false)
	testutil.RequireStringContains(t, desc, "### lookup", "heading present")
	testutil.RequireStringContains(t, desc, "*required*", "required marker present")
	testutil.RequireStringContains(t, desc, "`query`", "parameter name present")
}

func TestToolDescriptionJapaneseVariant(t *testing.T) {
	tool := ToolDefinition{
		Name:       "lookup",
		Parameters: []PropertySchema{StringProp("query", "", true)},
	}
	desc := ToolDescription(tool, true)
	testutil.RequireStringContains(t, desc, "必須", "japanese required marker")
}

func TestToolDescriptionNoParametersOmitsHeader(t *testing.T) {
	tool := ToolDefinition{Name: "ping"}
	desc := ToolDescription(tool, false)
	testutil.RequireTrue(t, !contains(desc, "Parameters"), "no parameters header when empty")
}

func TestRegistryDescriptionJoinsAllTools(t *testing.T) {
	r := NewRegistry()
	r.Add(ToolDefinition{Name: "alpha"})
	r.Add(ToolDefinition{Name: "beta"})
	desc := RegistryDescription(r, false)
	testutil.RequireStringContains(t, desc, "# Available Tools", "header present")
	testutil.RequireStringContains(t, desc, "### alpha", "alpha present")
	testutil.RequireStringContains(t, desc, "### beta", "beta present")
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
