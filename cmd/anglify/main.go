// Command anglify rewrites text between American and British English and
// serves the same rewriting over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/anglify"
)

var version = anglify.FullVersion()

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "anglify",
		Short: anglify.Description,
		Long: `anglify rewrites American English into British English and back.

Titles, clock times, locale-only vocabulary and spelling variants are
replaced, and every replacement can be reported or highlighted.

Examples:
  anglify translate -l en_GB notes.txt        # American to British
  anglify translate -l american page.html     # British to American, HTML aware
  echo "My favorite color" | anglify check -l uk
  anglify serve --config config.yaml`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newTranslateCommand(),
		newCheckCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", anglify.Name, version)
			build := anglify.Build()
			if build.Commit != "unknown" {
				fmt.Fprintf(out, "  commit:  %s\n", build.Commit)
			}
			if build.BuildDate != "unknown" {
				fmt.Fprintf(out, "  built:   %s\n", build.BuildDate)
			}
			return nil
		},
	}
}

func versionString() string {
	return anglify.Name + " " + version
}

// parseLocale accepts a direction ("american-to-british") or a target
// variant ("en_GB", "uk", "american").
func parseLocale(s string) (anglify.Direction, error) {
	if s == "" {
		return "", fmt.Errorf("--locale is required")
	}
	if dir, ok := anglify.ParseDirection(s); ok {
		return dir, nil
	}
	if dir, ok := anglify.DirectionForTarget(s); ok {
		return dir, nil
	}
	return "", fmt.Errorf("unknown locale %q", s)
}

// readInput reads the named file, or stdin when args is empty.
func readInput(cmd *cobra.Command, args []string) (content, name string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}

// contentFormat resolves --format, guessing from the file extension when
// it is empty.
func contentFormat(format string, args []string) (string, error) {
	switch format {
	case "text", "html":
		return format, nil
	case "":
		if len(args) > 0 {
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".html", ".htm", ".xhtml":
				return "html", nil
			}
		}
		return "text", nil
	}
	return "", fmt.Errorf("unknown format %q (want text or html)", format)
}
