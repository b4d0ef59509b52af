package routedecor

import (
	"strings"
)

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a route path
type PathPart struct {
	Type      PathPartType
	Value     string // static text, or the parameter name
	ParamType string // for {name:type} parameters, empty otherwise
}

// Path is a route path. Parameters may be written express style (/tasks/:id),
// brace style (/tasks/{id} or /tasks/{id:int}); "*" and "{*}" are wildcards.
type Path string

// Raw returns the path as written
func (p Path) Raw() string {
	return string(p)
}

// Parts parses the path into static, parameter and wildcard parts
func (p Path) Parts() []PathPart {
	path := string(p)
	var parts []PathPart

	i := 0
	for i < len(path) {
		switch {
		case path[i] == '{':
			j := strings.IndexByte(path[i:], '}')
			if j == -1 {
				// unterminated brace, keep it literal
				parts = appendStatic(parts, path[i:i+1])
				i++
				continue
			}
			content := path[i+1 : i+j]
			if content == "*" {
				parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
			} else {
				name, typ, _ := strings.Cut(content, ":")
				parts = append(parts, PathPart{Type: ParameterPart, Value: name, ParamType: typ})
			}
			i += j + 1
		case path[i] == ':' && segmentStart(path, i):
			j := i + 1
			for j < len(path) && path[j] != '/' {
				j++
			}
			parts = append(parts, PathPart{Type: ParameterPart, Value: path[i+1 : j]})
			i = j
		case path[i] == '*' && segmentStart(path, i):
			j := i + 1
			for j < len(path) && path[j] != '/' {
				j++
			}
			parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
			i = j
		default:
			start := i
			i++
			for i < len(path) && !segmentStart(path, i) {
				i++
			}
			parts = appendStatic(parts, path[start:i])
		}
	}

	return parts
}

// ParamNames returns the parameter names in order of appearance
func (p Path) ParamNames() []string {
	var names []string
	for _, part := range p.Parts() {
		if part.Type == ParameterPart {
			names = append(names, part.Value)
		}
	}
	return names
}

// Format renders the path with each parameter written by param and each
// wildcard written as wildcard. Adapters use it to produce router syntax.
func (p Path) Format(param func(name string) string, wildcard string) string {
	var b strings.Builder
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			b.WriteString(param(part.Value))
		case WildcardPart:
			b.WriteString(wildcard)
		default:
			b.WriteString(part.Value)
		}
	}
	return b.String()
}

// segmentStart reports whether a parameter or wildcard may begin at i.
func segmentStart(path string, i int) bool {
	if path[i] == '{' {
		return true
	}
	return (path[i] == ':' || path[i] == '*') && (i == 0 || path[i-1] == '/')
}

func appendStatic(parts []PathPart, s string) []PathPart {
	if n := len(parts); n > 0 && parts[n-1].Type == StaticPart {
		parts[n-1].Value += s
		return parts
	}
	return append(parts, PathPart{Type: StaticPart, Value: s})
}

// NewPath creates a new Path from a string
func NewPath(path string) Path {
	return Path(path)
}
