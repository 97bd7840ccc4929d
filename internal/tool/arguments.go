package tool

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
)

// DefaultModel is used when a call does not name a model
const DefaultModel = "deepseek-r1:8b"

// KnownModels is documentation for callers. Model names are never checked against it.
var KnownModels = []string{
	"deepseek-r1:32b",
	"deepseek-r1:7b",
	"deepseek-r1:8b",
	"deepseek-r1:1.5b",
	"llava-llama3",
	"llava",
	"llama3.2-vision",
	"llama3.3",
	"llama2",
	"llama3.2",
}

// Arguments is the typed form of a query-ollama call. Each field takes any JSON
// value so that coercion and validation happen in Handler.Call, not in the
// decoder.
type Arguments struct {
	Query   Value `json:"query" jsonschema:"required" jsonschema_description:"The question or prompt to send to the model"`
	Context Value `json:"context" jsonschema:"required" jsonschema_description:"Additional context or background information for the query"`
	Model   Value `json:"model" jsonschema:"required,default=deepseek-r1:8b" jsonschema_description:"The Ollama model to use for the query (default: deepseek-r1:8b)"`
}

// Value holds one decoded argument. Set distinguishes an explicit null from
// an absent key.
type Value struct {
	Set bool
	Raw interface{}
}

// StringValue is a present string argument
func StringValue(s string) Value {
	return Value{Set: true, Raw: s}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.Set = true
	return json.Unmarshal(data, &v.Raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// JSONSchema advertises arguments as strings; other types are still accepted
func (Value) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

// Map converts the arguments back into the untyped form Handler.Call takes
func (a Arguments) Map() map[string]interface{} {
	args := make(map[string]interface{})
	if a.Query.Set {
		args["query"] = a.Query.Raw
	}
	if a.Context.Set {
		args["context"] = a.Context.Raw
	}
	if a.Model.Set {
		args["model"] = a.Model.Raw
	}
	return args
}

// invocation holds the coerced arguments; a falsy argument coerces to ""
type invocation struct {
	Query   string `validate:"required"`
	Context string `validate:"required"`
	Model   string `validate:"required"`
}

// stringArg renders a decoded JSON value as text. Falsy values (null, "",
// false, 0, empty list or object) become the empty string.
func stringArg(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return strconv.FormatBool(val)
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	case []interface{}:
		if len(val) == 0 {
			return ""
		}
		return compactJSON(val)
	case map[string]interface{}:
		if len(val) == 0 {
			return ""
		}
		return compactJSON(val)
	default:
		return fmt.Sprint(val)
	}
}

func compactJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
