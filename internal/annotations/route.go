// Package annotations parses textual route expressions such as
//
//	GET /tasks/:id -Middleware=auth,audit
//
// into their method, path and middleware names.
package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// RouteExpr is the grammar root of a route expression
type RouteExpr struct {
	Pos lexer.Position

	Method  string    `parser:"@Ident"`
	Path    string    `parser:"@Path?"`
	Options []*Option `parser:"@@*"`
}

// Option is a -Name or -Name=v1,v2 flag
type Option struct {
	Pos lexer.Position

	Name   string   `parser:"'-' @Ident"`
	Values []string `parser:"( '=' @(Ident | String) ( ',' @(Ident | String) )* )?"`
}

// Route is a parsed and checked route expression
type Route struct {
	Method      string
	Path        string
	Middlewares []string
}

var routeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Punct", Pattern: `[-=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var routeParser = participle.MustBuild[RouteExpr](
	participle.Lexer(routeLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// middlewareOptions are the accepted spellings of the middleware option
var middlewareOptions = map[string]bool{
	"middleware":  true,
	"middlewares": true,
	"mw":          true,
}

// ExprError reports a malformed route expression with the column it was found at
type ExprError struct {
	Expr    string
	Column  int
	Message string
}

func (e *ExprError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("route expression %q:%d: %s", e.Expr, e.Column, e.Message)
	}
	return fmt.Sprintf("route expression %q: %s", e.Expr, e.Message)
}

// Parse parses expr. The method token is returned as written; checking it
// against the known methods is left to the caller.
func Parse(expr string) (*Route, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &ExprError{Expr: expr, Message: "empty expression"}
	}

	ast, err := routeParser.ParseString("", expr)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &ExprError{Expr: expr, Column: perr.Position().Column, Message: perr.Message()}
		}
		return nil, &ExprError{Expr: expr, Message: err.Error()}
	}

	route := &Route{Method: ast.Method, Path: ast.Path}
	for _, opt := range ast.Options {
		if !middlewareOptions[strings.ToLower(opt.Name)] {
			return nil, &ExprError{Expr: expr, Column: opt.Pos.Column, Message: fmt.Sprintf("unknown option -%s", opt.Name)}
		}
		if len(opt.Values) == 0 {
			return nil, &ExprError{Expr: expr, Column: opt.Pos.Column, Message: fmt.Sprintf("option -%s needs at least one middleware name", opt.Name)}
		}
		route.Middlewares = append(route.Middlewares, opt.Values...)
	}
	return route, nil
}
