// Package toolschema builds OpenAI-style function-calling schemas from
// a small property-description DSL, and hosts a linear-lookup tool
// registry a host application populates before wiring an agent.Runner.
package toolschema

// SchemaType is the declared base type of a PropertySchema.
type SchemaType int

const (
	TypeString SchemaType = iota
	TypeInteger
	TypeNumber
	TypeBoolean
	TypeArray
	TypeObject
)

func (t SchemaType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "string"
	}
}

// PropertySchema describes one parameter of a tool's input schema.
// EnumValues, if non-empty, forces serialization as a string enum
// regardless of Type. Items applies only when Type is TypeArray;
// Properties applies only when Type is TypeObject.
type PropertySchema struct {
	Name        string
	Type        SchemaType
	Description string
	Required    bool
	EnumValues  []string
	Items       *PropertySchema
	Properties  []PropertySchema
}

// StringProp builds a required-or-optional string property.
func StringProp(name, description string, required bool) PropertySchema {
	return PropertySchema{Name: name, Type: TypeString, Description: description, Required: required}
}

// IntProp builds an integer property.
func IntProp(name, description string, required bool) PropertySchema {
	return PropertySchema{Name: name, Type: TypeInteger, Description: description, Required: required}
}

// NumberProp builds a floating-point property.
func NumberProp(name, description string, required bool) PropertySchema {
	return PropertySchema{Name: name, Type: TypeNumber, Description: description, Required: required}
}

// BoolProp builds a boolean property.
func BoolProp(name, description string, required bool) PropertySchema {
	return PropertySchema{Name: name, Type: TypeBoolean, Description: description, Required: required}
}

// EnumProp builds a string property constrained to values.
func EnumProp(name, description string, required bool, values []string) PropertySchema {
	return PropertySchema{Name: name, Type: TypeString, Description: description, Required: required, EnumValues: values}
}

// ArrayProp builds an array property whose elements follow items.
func ArrayProp(name, description string, required bool, items *PropertySchema) PropertySchema {
	return PropertySchema{Name: name, Type: TypeArray, Description: description, Required: required, Items: items}
}

// ObjectProp builds a nested object property.
func ObjectProp(name, description string, required bool, properties []PropertySchema) PropertySchema {
	return PropertySchema{Name: name, Type: TypeObject, Description: description, Required: required, Properties: properties}
}

// ToolDefinition is one entry a Registry holds: a tool name,
// human-readable description, and its parameter list.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []PropertySchema
}

// Registry is a slice-backed, linearly-searched collection of tool
// definitions. Duplicate names are not checked or rejected; that is
// the caller's responsibility, matching the source registry's
// contract.
type Registry struct {
	tools []ToolDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends tool to the registry.
func (r *Registry) Add(tool ToolDefinition) {
	r.tools = append(r.tools, tool)
}

// Find returns the tool definition with the given name, or false if
// none exists. Lookup is linear.
func (r *Registry) Find(name string) (ToolDefinition, bool) {
	for _, t := range r.tools {
		if t.Name == name {
			return t, true
		}
	}
	return ToolDefinition{}, false
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Tools returns the registered tool definitions in registration
// order. Callers must not mutate the returned slice.
func (r *Registry) Tools() []ToolDefinition {
	return r.tools
}
