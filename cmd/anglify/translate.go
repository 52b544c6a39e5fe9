package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/anglify"
	"github.com/ZaguanLabs/anglify/processor"
)

type translateOptions struct {
	locale     string
	output     string
	format     string
	dictionary string
	highlight  bool
	jsonOutput bool
	quiet      bool
}

func newTranslateCommand() *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Rewrite a file or stdin into the other variant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.locale, "locale", "l", "", "Target variant (en_GB, en_US, uk, us) or direction")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVarP(&opts.format, "format", "f", "", "Input format: text or html (default: from file extension)")
	f.StringVar(&opts.dictionary, "dictionary", "", "Directory of YAML tables overriding the embedded ones")
	f.BoolVar(&opts.highlight, "highlight", false, "Wrap replacements in highlight markup")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output result as JSON")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress stats output")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	dir, err := parseLocale(opts.locale)
	if err != nil {
		return err
	}
	format, err := contentFormat(opts.format, args)
	if err != nil {
		return err
	}

	input, inputName, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	translator, err := newCLITranslator(opts.dictionary, opts.highlight)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if !opts.quiet {
		fmt.Fprintf(stderr, "Translating %s to %s (%s)...\n", inputName, anglify.GetLocaleName(dir.TargetLocale()), dir)
	}

	start := time.Now()
	result, err := translator.Process(cmd.Context(), input, format, dir)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.jsonOutput {
		return outputJSON(out, result, dir, elapsed)
	}

	fmt.Fprint(out, result.Content)

	if !opts.quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Nodes found:   %d\n", result.TotalNodes)
		fmt.Fprintf(stderr, "  Changed:       %d\n", result.ChangedNodes)
		fmt.Fprintf(stderr, "  Replacements:  %d\n", result.SpanCount)
	}

	return nil
}

// newCLITranslator builds a translator with both processors registered.
func newCLITranslator(dictDir string, highlight bool) (*anglify.Translator, error) {
	dicts, err := anglify.LoadDictionaries(dictDir)
	if err != nil {
		return nil, err
	}

	text := processor.NewTextProcessor()
	html := processor.NewHTMLProcessor()
	if !highlight {
		text.Plain()
		html.Plain()
	}

	return anglify.NewTranslator(dicts,
		anglify.WithProcessor(text),
		anglify.WithProcessor(html),
	), nil
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Content      string            `json:"content"`
	Direction    anglify.Direction `json:"direction"`
	TotalNodes   int               `json:"total_nodes"`
	ChangedNodes int               `json:"changed_nodes"`
	SpanCount    int               `json:"span_count"`
	ElapsedMs    int64             `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, result *anglify.ProcessedContent, dir anglify.Direction, elapsed time.Duration) error {
	out := JSONOutput{
		Content:      result.Content,
		Direction:    dir,
		TotalNodes:   result.TotalNodes,
		ChangedNodes: result.ChangedNodes,
		SpanCount:    result.SpanCount,
		ElapsedMs:    elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
