package domain

// ParseParameters converts a decoded JSON schema object into Parameters
func ParseParameters(schema map[string]interface{}) Parameters {
	params := Parameters{
		Properties: make(map[string]Property),
	}

	if t, ok := schema["type"].(string); ok {
		params.Type = t
	}

	params.Required = stringList(schema["required"])

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		for name, propInterface := range props {
			if propMap, ok := propInterface.(map[string]interface{}); ok {
				params.Properties[name] = parseProperty(propMap)
			}
		}
	}

	return params
}

func parseProperty(propMap map[string]interface{}) Property {
	property := Property{}

	if t, ok := propMap["type"].(string); ok {
		property.Type = t
	}

	if desc, ok := propMap["description"].(string); ok {
		property.Description = desc
	}

	property.Enum = stringList(propMap["enum"])

	if def, ok := propMap["default"]; ok {
		property.Default = def
	}

	return property
}

func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
