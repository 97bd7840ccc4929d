package prompt

import "strings"

// Template joins named sections into a single prompt
type Template struct {
	Name     string
	Sections []string
}

// QueryTemplate is the layout sent to the model for a query-ollama call
var QueryTemplate = Template{
	Name:     "query",
	Sections: []string{"Context", "Query"},
}

// Render writes each section as "Name: value", separated by a blank line.
// Values are inserted verbatim; missing ones render empty.
func (t Template) Render(values map[string]string) string {
	parts := make([]string, 0, len(t.Sections))
	for _, section := range t.Sections {
		parts = append(parts, section+": "+values[section])
	}
	return strings.Join(parts, "\n\n")
}

// Compose builds the prompt for a context/query pair
func Compose(context, query string) string {
	return QueryTemplate.Render(map[string]string{
		"Context": context,
		"Query":   query,
	})
}
