package toolschema

import (
	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/jsonval"
)

// PropertyToJSON emits a single property's JSON Schema fragment.
// EnumValues takes precedence over the declared base type: an enum
// property always serializes as {type:"string", enum:[...]}.
func PropertyToJSON(a *arena.Arena, prop PropertySchema) *jsonval.Value {
	obj := jsonval.NewObject()

	if len(prop.EnumValues) > 0 {
		obj.ObjectSet(a, "type", jsonval.NewStringCopy(a, "string"))
	} else {
		obj.ObjectSet(a, "type", jsonval.NewStringCopy(a, prop.Type.String()))
	}

	if prop.Description != "" {
		obj.ObjectSet(a, "description", jsonval.NewStringCopy(a, prop.Description))
	}

	if len(prop.EnumValues) > 0 {
		enumArr := jsonval.NewArray()
		for _, v := range prop.EnumValues {
			enumArr.Append(jsonval.NewStringCopy(a, v))
		}
		obj.ObjectSet(a, "enum", enumArr)
	}

	if prop.Type == TypeArray && prop.Items != nil {
		obj.ObjectSet(a, "items", PropertyToJSON(a, *prop.Items))
	}

	if prop.Type == TypeObject && len(prop.Properties) > 0 {
		propsObj := jsonval.NewObject()
		requiredArr := jsonval.NewArray()
		for _, nested := range prop.Properties {
			propsObj.ObjectSet(a, nested.Name, PropertyToJSON(a, nested))
			if nested.Required {
				requiredArr.Append(jsonval.NewStringCopy(a, nested.Name))
			}
		}
		obj.ObjectSet(a, "properties", propsObj)
		if requiredArr.Len() > 0 {
			obj.ObjectSet(a, "required", requiredArr)
		}
	}

	return obj
}

// ToJSON emits the OpenAI function-calling shape for one tool:
// {type:"function", function:{name, description, parameters:{type:"object",
// properties:{...}, required:[...]}}}. An empty required list is
// omitted entirely.
func ToJSON(a *arena.Arena, tool ToolDefinition) *jsonval.Value {
	root := jsonval.NewObject()
	root.ObjectSet(a, "type", jsonval.NewStringCopy(a, "function"))

	fn := jsonval.NewObject()
	fn.ObjectSet(a, "name", jsonval.NewStringCopy(a, tool.Name))
	if tool.Description != "" {
		fn.ObjectSet(a, "description", jsonval.NewStringCopy(a, tool.Description))
	}

	params := jsonval.NewObject()
	params.ObjectSet(a, "type", jsonval.NewStringCopy(a, "object"))

	properties := jsonval.NewObject()
	required := jsonval.NewArray()
	for _, prop := range tool.Parameters {
		properties.ObjectSet(a, prop.Name, PropertyToJSON(a, prop))
		if prop.Required {
			required.Append(jsonval.NewStringCopy(a, prop.Name))
		}
	}
	params.ObjectSet(a, "properties", properties)
	if required.Len() > 0 {
		params.ObjectSet(a, "required", required)
	}

	fn.ObjectSet(a, "parameters", params)
	root.ObjectSet(a, "function", fn)
	return root
}

// RegistryToJSON emits the full tools array the registry holds, in
// registration order.
func RegistryToJSON(a *arena.Arena, r *Registry) *jsonval.Value {
	arr := jsonval.NewArray()
	if r == nil {
		return arr
	}
	for _, tool := range r.Tools() {
		arr.Append(ToJSON(a, tool))
	}
	return arr
}

// SchemaJSON renders RegistryToJSON as serialized text, ready for
// substitution into a system prompt template.
func SchemaJSON(a *arena.Arena, r *Registry, pretty bool) string {
	return jsonval.Serialize(RegistryToJSON(a, r), jsonval.SerializeOptions{Pretty: pretty})
}
