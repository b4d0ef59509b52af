package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// Diagnostics writes the human-facing output of the CLI.
type Diagnostics struct {
	out    io.Writer
	errOut io.Writer
	colors bool

	header *color.Color
	phase  *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	dim    *color.Color
}

// NewDiagnostics creates a Diagnostics writing to out and errOut. Colours are
// used only when enabled and the environment allows them.
func NewDiagnostics(out, errOut io.Writer, colors bool) *Diagnostics {
	d := &Diagnostics{
		out:    out,
		errOut: errOut,
		header: color.New(color.FgCyan, color.Bold),
		phase:  color.New(color.FgBlue),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		dim:    color.New(color.FgHiBlack),
	}

	useColors := colors && shouldUseColors()
	d.colors = useColors
	for _, c := range []*color.Color{d.header, d.phase, d.ok, d.warn, d.fail, d.dim} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return d
}

// Header outputs the main routedecor header
func (d *Diagnostics) Header(format string, args ...any) {
	d.header.Fprintf(d.out, "routedecor: %s\n", fmt.Sprintf(format, args...))
}

// Phase outputs a phase header
func (d *Diagnostics) Phase(title string) {
	d.phase.Fprintf(d.out, "%s:\n", title)
}

// Item outputs a phase item with checkmark
func (d *Diagnostics) Item(format string, args ...any) {
	d.ok.Fprint(d.out, "✓ ")
	fmt.Fprintf(d.out, "%s\n", fmt.Sprintf(format, args...))
}

// Warning outputs a warning to the error stream
func (d *Diagnostics) Warning(format string, args ...any) {
	d.warn.Fprint(d.errOut, "! ")
	fmt.Fprintf(d.errOut, "%s\n", fmt.Sprintf(format, args...))
}

// Routes prints routes as an aligned table
func (d *Diagnostics) Routes(routes []routedecor.RouteInfo) {
	if len(routes) == 0 {
		fmt.Fprintln(d.out, "no routes")
		return
	}

	methodWidth, pathWidth := len("METHOD"), len("PATH")
	for _, r := range routes {
		methodWidth = max(methodWidth, len(r.Method))
		pathWidth = max(pathWidth, len(r.Path))
	}

	d.dim.Fprintf(d.out, "%-*s  %-*s  %s\n", methodWidth, "METHOD", pathWidth, "PATH", "HANDLER")
	for _, r := range routes {
		d.methodColor(r.Method).Fprintf(d.out, "%-*s", methodWidth, r.Method)
		fmt.Fprintf(d.out, "  %-*s  %s.%s", pathWidth, r.Path, r.ControllerName, r.Endpoint)
		if r.Middlewares > 0 {
			d.dim.Fprintf(d.out, " (+%d middleware)", r.Middlewares)
		}
		fmt.Fprintln(d.out)
	}
}

// Summary outputs key/value statistics sorted by key
func (d *Diagnostics) Summary(title string, stats map[string]any) {
	fmt.Fprintf(d.out, "\n%s\n", title)
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(d.out, "   %s: %v\n", k, stats[k])
	}
}

// ReportError prints err with the context and suggestions the taxonomy errors carry
func (d *Diagnostics) ReportError(err error) {
	d.fail.Fprint(d.errOut, "✗ ")
	fmt.Fprintf(d.errOut, "%s\n", err)

	var coded interface {
		ErrorCode() routedecor.ErrorCode
		Context() map[string]any
		Suggestions() []string
	}
	if !errors.As(err, &coded) {
		return
	}

	fmt.Fprintf(d.errOut, "   Type: %s\n", coded.ErrorCode())
	ctx := coded.Context()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := ctx[k]; v != nil && v != "" {
			fmt.Fprintf(d.errOut, "   %s: %v\n", formatContextKey(k), v)
		}
	}

	suggestions := coded.Suggestions()
	if len(suggestions) == 0 {
		suggestions = defaultSuggestions(coded.ErrorCode())
	}
	if len(suggestions) > 0 {
		fmt.Fprintln(d.errOut, "   Suggestions:")
		for i, s := range suggestions {
			fmt.Fprintf(d.errOut, "   %d. %s\n", i+1, s)
		}
	}
}

func defaultSuggestions(code routedecor.ErrorCode) []string {
	switch code {
	case routedecor.ValidationErrorCode:
		return []string{"check the annotation arguments: a string path first, then middleware functions"}
	case routedecor.ConfigurationErrorCode:
		return []string{"check controllers.expression and the controller root paths"}
	case routedecor.ResolutionErrorCode:
		return []string{
			"make sure every annotated action exists on the instance the target produces",
			"the container strategy needs ScopePerRequest ahead of the routes",
		}
	}
	return nil
}

// formatContextKey turns camelCase context keys into title words
func formatContextKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *Diagnostics) methodColor(method string) *color.Color {
	var c *color.Color
	switch method {
	case "GET":
		c = color.New(color.FgGreen)
	case "POST":
		c = color.New(color.FgYellow)
	case "PUT", "PATCH":
		c = color.New(color.FgBlue)
	case "DELETE":
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgMagenta)
	}
	if d.colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
