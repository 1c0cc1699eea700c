package main

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/ui"
)

// helpRule rewrites every match of re in cobra's help text.
type helpRule struct {
	re     *regexp.Regexp
	render func(groups []string) string
}

var helpRules = []helpRule{
	// Group and section headers such as "Tokens:" or "Flags:".
	{regexp.MustCompile(`(?m)^([A-Z][^\n]*:)[ \t]*$`), func(g []string) string {
		return ui.RenderAccent(g[1])
	}},
	// Command names in the two-space indented command list.
	{regexp.MustCompile(`(?m)^(  )([a-z][\w-]*)(  )`), func(g []string) string {
		return g[1] + ui.RenderCommand(g[2]) + g[3]
	}},
	// Flag value types, e.g. "--server string".
	{regexp.MustCompile(`(--?[\w-]+\s+)(string|int|int64|duration|stringArray)\b`), func(g []string) string {
		return g[1] + ui.RenderMuted(g[2])
	}},
	{regexp.MustCompile(`\(default [^)]*\)`), func(g []string) string {
		return ui.RenderMuted(g[0])
	}},
}

// colorizedHelpFunc returns a cobra help function that styles the default
// usage text when stdout supports color.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelp(buf.String()))
	}
}

func colorizeHelp(s string) string {
	for _, rule := range helpRules {
		s = rule.re.ReplaceAllStringFunc(s, func(match string) string {
			return rule.render(rule.re.FindStringSubmatch(match))
		})
	}
	return s
}
