package routedecor

import (
	"net/http"
	"strings"
)

// HTTPMethod is one of the method tokens an action can be annotated with.
type HTTPMethod int

const (
	MethodGet HTTPMethod = iota + 1
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodHead
	MethodOptions
	MethodAll
)

// MethodAny is the verb handed to route sinks for MethodAll routes.
const MethodAny = "ALL"

var methodTokens = map[string]HTTPMethod{
	"get":     MethodGet,
	"post":    MethodPost,
	"put":     MethodPut,
	"patch":   MethodPatch,
	"delete":  MethodDelete,
	"del":     MethodDelete,
	"head":    MethodHead,
	"options": MethodOptions,
	"all":     MethodAll,
}

// ParseMethod resolves a method token case-insensitively. "del" is an alias of "delete".
func ParseMethod(token string) (HTTPMethod, bool) {
	m, ok := methodTokens[strings.ToLower(strings.TrimSpace(token))]
	return m, ok
}

// String returns the canonical lower-case token
func (m HTTPMethod) String() string {
	switch m {
	case MethodGet:
		return "get"
	case MethodPost:
		return "post"
	case MethodPut:
		return "put"
	case MethodPatch:
		return "patch"
	case MethodDelete:
		return "delete"
	case MethodHead:
		return "head"
	case MethodOptions:
		return "options"
	case MethodAll:
		return "all"
	default:
		return "unknown"
	}
}

// Verb returns the upper-case HTTP verb passed to route sinks
func (m HTTPMethod) Verb() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodPatch:
		return http.MethodPatch
	case MethodDelete:
		return http.MethodDelete
	case MethodHead:
		return http.MethodHead
	case MethodOptions:
		return http.MethodOptions
	case MethodAll:
		return MethodAny
	default:
		return ""
	}
}

// Valid reports whether m is one of the enumerated methods
func (m HTTPMethod) Valid() bool {
	return m >= MethodGet && m <= MethodAll
}
