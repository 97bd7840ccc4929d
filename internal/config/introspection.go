package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

// GetKnownKeys returns all valid configuration keys based on the schema
func GetKnownKeys() map[string]bool {
	known := make(map[string]bool)
	addKnownKeysByType("", reflect.TypeOf(ConfigSchema{}), known)
	return known
}

// addKnownKeysByType recursively adds keys by examining the struct type
func addKnownKeysByType(prefix string, t reflect.Type, known map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Convert the key to lowercase since viper lowercases all keys
		key = strings.ToLower(key)
		known[key] = true

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Duration(0)) {
			addKnownKeysByType(key, field.Type, known)
		}
	}
}

// IsKnownKey checks if a key is known
func IsKnownKey(known map[string]bool, key string) bool {
	return known[strings.ToLower(key)]
}

// PrintConfig writes the configuration in YAML form, optionally annotated with
// the source of each value. A non-empty prefix limits output to that subtree.
func (s *ConfigSchema) PrintConfig(w io.Writer, includeSources bool, prefix string) {
	p := &printer{
		w:              w,
		sources:        s.sources,
		includeSources: includeSources,
		prefix:         strings.ToLower(prefix),
	}
	p.printValue(reflect.ValueOf(*s), "", "", 0)
}

type printer struct {
	w              io.Writer
	sources        map[string][]configSource
	includeSources bool
	prefix         string
}

// inScope reports whether path is the prefix, lies under it, or leads to it
func (p *printer) inScope(path string) bool {
	if p.prefix == "" || path == "" {
		return true
	}
	return path == p.prefix ||
		strings.HasPrefix(path, p.prefix+".") ||
		strings.HasPrefix(p.prefix, path+".")
}

func (p *printer) printValue(v reflect.Value, key, path string, indent int) {
	if !p.inScope(path) {
		return
	}
	pad := strings.Repeat("  ", indent)

	if v.Kind() == reflect.Struct {
		if key != "" {
			fmt.Fprintf(p.w, "%s%s:\n", pad, key)
			indent++
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			tag := field.Tag.Get("mapstructure")
			if !field.IsExported() || tag == "" {
				continue
			}
			childPath := strings.ToLower(tag)
			if path != "" {
				childPath = path + "." + childPath
			}
			p.printValue(v.Field(i), tag, childPath, indent)
		}
		return
	}

	if v.Kind() == reflect.Slice {
		fmt.Fprintf(p.w, "%s%s:", pad, key)
		p.printSourceInfo(path)
		fmt.Fprintln(p.w)
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintf(p.w, "%s  - %v\n", pad, v.Index(i).Interface())
		}
		return
	}

	if isSecretKey(key) {
		fmt.Fprintf(p.w, "%s%s: [REDACTED]", pad, key)
	} else {
		fmt.Fprintf(p.w, "%s%s: %v", pad, key, v.Interface())
	}
	p.printSourceInfo(path)
	fmt.Fprintln(p.w)
}

func (p *printer) printSourceInfo(path string) {
	if !p.includeSources {
		return
	}

	if sources, ok := p.sources[path]; ok && len(sources) > 0 {
		fmt.Fprintf(p.w, " # (%s)", sources[len(sources)-1].source)
		return
	}
	fmt.Fprint(p.w, " # (default)")
}

func isSecretKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "key") ||
		strings.Contains(strings.ToLower(key), "secret") ||
		strings.Contains(strings.ToLower(key), "password")
}
