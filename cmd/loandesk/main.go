package main

import (
	"os"
	"strings"

	"loandesk-cli/internal/cli"
)

func isAppNumber(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "LA-") {
		return false
	}
	return len(s) > len("LA-")
}

// rewriteDirectAppLookupArgs makes `loandesk <app-number>` work like
// `loandesk apps show <app-number>`. Cobra treats the first non-flag token as
// a subcommand, so argv is rewritten before parsing. Persistent flags may come
// first, so the first positional token is what matters, not argv[1].
func rewriteDirectAppLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api-url": true,
		"--actor":   true,
		"--format":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isAppNumber(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "apps", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isAppNumber(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "apps", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectAppLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
