// Command apicompat fails when a revised swagger document breaks clients of the base one.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("apicompat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	basePath := fs.String("base", "", "base swagger.yaml path")
	revisionPath := fs.String("revision", "docs/swagger.yaml", "revision swagger.yaml path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: apicompat -base <path> [-revision <path>]")
		return 2
	}

	base, err := loadDocument(*basePath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to load base document: %v\n", err)
		return 1
	}
	revision, err := loadDocument(*revisionPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to load revision document: %v\n", err)
		return 1
	}

	if issues := compare(base, revision); len(issues) > 0 {
		_, _ = fmt.Fprintln(stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			_, _ = fmt.Fprintf(stderr, "- %s\n", issue)
		}
		return 1
	}

	_, _ = fmt.Fprintln(stdout, "api compatibility check passed")
	return 0
}
