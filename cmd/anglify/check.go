package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/anglify"
	"github.com/ZaguanLabs/anglify/processor"
)

// errFindings is returned by check --strict when there is something to rewrite.
var errFindings = errors.New("replacements found")

type checkOptions struct {
	locale     string
	format     string
	dictionary string
	since      string
	jsonOutput bool
	strict     bool
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "List what translate would replace, without rewriting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.locale, "locale", "l", "", "Target variant (en_GB, en_US, uk, us) or direction")
	f.StringVarP(&opts.format, "format", "f", "", "Input format: text or html (default: from file extension)")
	f.StringVar(&opts.dictionary, "dictionary", "", "Directory of YAML tables overriding the embedded ones")
	f.StringVar(&opts.since, "since", "", "Previous version of the input; only new or modified text is checked")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output findings as JSON")
	f.BoolVar(&opts.strict, "strict", false, "Exit with an error when anything would be replaced")

	return cmd
}

// finding is one node that translate would change.
type finding struct {
	Location string              `json:"location"`
	Text     string              `json:"text"`
	Spans    []anglify.MatchSpan `json:"spans"`
}

type checkOutput struct {
	InputFile    string             `json:"input_file"`
	PreviousFile string             `json:"previous_file,omitempty"`
	Direction    anglify.Direction  `json:"direction"`
	NodeCount    int                `json:"node_count"`
	Diff         *anglify.DiffStats `json:"diff,omitempty"`
	Findings     []finding          `json:"findings"`
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
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

	dicts, err := anglify.LoadDictionaries(opts.dictionary)
	if err != nil {
		return err
	}
	translator := anglify.NewTranslator(dicts)

	proc := extractor(format)
	_, nodes, err := proc.Extract(input)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	out := checkOutput{
		InputFile: inputName,
		Direction: dir,
		NodeCount: len(nodes),
		Findings:  []finding{},
	}

	if opts.since != "" {
		prevData, err := os.ReadFile(opts.since) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading previous version: %w", err)
		}
		_, prevNodes, err := proc.Extract(string(prevData))
		if err != nil {
			return fmt.Errorf("parsing previous version: %w", err)
		}

		diff := anglify.DiffNodesInPlace(prevNodes, nodes)
		stats := diff.Stats()
		out.PreviousFile = filepath.Base(opts.since)
		out.Diff = &stats
		nodes = diff.Pending()
	}

	for _, node := range nodes {
		res := translator.Translate(node.Text, dir)
		if !res.Changed() {
			continue
		}
		out.Findings = append(out.Findings, finding{
			Location: nodeLocation(node),
			Text:     node.Text,
			Spans:    res.Spans,
		})
	}

	w := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		printFindings(w, out)
	}

	if opts.strict && len(out.Findings) > 0 {
		return errFindings
	}
	return nil
}

func printFindings(w io.Writer, out checkOutput) {
	fmt.Fprintf(w, "Check: %s against %s (%s)\n", out.InputFile, anglify.GetLocaleName(out.Direction.TargetLocale()), out.Direction)
	if out.Diff != nil {
		fmt.Fprintf(w, "Compared with %s: %d added, %d modified, %d unchanged\n",
			out.PreviousFile, out.Diff.Added, out.Diff.Modified, out.Diff.Unchanged)
	}
	fmt.Fprintf(w, "Found %d text nodes, %d with replacements\n", out.NodeCount, len(out.Findings))

	if len(out.Findings) == 0 {
		fmt.Fprintln(w, "Everything looks good to me!")
		return
	}

	fmt.Fprintln(w)
	for _, f := range out.Findings {
		fmt.Fprintf(w, "%s: %q\n", f.Location, truncate(f.Text, 60))
		for _, s := range f.Spans {
			fmt.Fprintf(w, "    %s -> %s (%s)\n", s.Original, s.Replacement, s.Category)
		}
	}
}

// extractor returns the processor used to split content of format into nodes.
func extractor(format string) anglify.ContentProcessor {
	if format == "html" {
		return processor.NewHTMLProcessor()
	}
	return processor.NewTextProcessor()
}

func nodeLocation(n anglify.TextNode) string {
	if line, ok := n.Metadata["line"]; ok {
		return "line " + line
	}
	if tag, ok := n.Metadata["parent_tag"]; ok {
		return n.ID + " <" + tag + ">"
	}
	return n.ID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
