package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

type scoreReport struct {
	Outcome         screening.TriageOutcome    `json:"outcome"`
	Recommendations []screening.Recommendation `json:"recommendations"`
}

func newScoreCmd() *cobra.Command {
	var (
		file    string
		asJSON  bool
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "score -f responses.yaml",
		Short: "Score a response file and print the triage outcome",
		Long: `Reads phq9, gad7, pss10 and ghq12 arrays from a YAML or JSON file
("-" reads stdin) and prints per-instrument results, the overall category
and the recommendations a student would receive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := readResponses(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			outcome, err := screening.Evaluate(set)
			if err != nil {
				var verr *screening.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("invalid responses: %w", err)
				}
				return err
			}
			report := scoreReport{Outcome: outcome, Recommendations: screening.Recommend(outcome.OverallCategory, outcome.SafetyFlag)}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			colour := !noColor && isTerminal(out)
			renderReport(out, report, colour)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "response file (YAML or JSON, - for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// readResponses parses YAML; JSON documents parse as YAML too.
func readResponses(stdin io.Reader, path string) (screening.ResponseSet, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return screening.ResponseSet{}, fmt.Errorf("read responses: %w", err)
	}
	var set screening.ResponseSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return screening.ResponseSet{}, fmt.Errorf("parse responses: %w", err)
	}
	return set, nil
}

func categoryColor(c screening.TriageCategory) *color.Color {
	switch c {
	case screening.TriageCrisisAlert, screening.TriageHigh:
		return color.New(color.FgRed, color.Bold)
	case screening.TriageModerate:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func renderReport(w io.Writer, r scoreReport, colour bool) {
	paint := func(c *color.Color, s string) string {
		if !colour {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w, paint(bold, "Instrument  Score    Category"))
	for _, code := range screening.Instruments {
		res := r.Outcome.InstrumentResults.For(code)
		fmt.Fprintf(w, "%-10s  %2d / %-3d %s\n", code, res.RawScore, res.MaxScore, res.Category)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall: %s\n", paint(categoryColor(r.Outcome.OverallCategory), string(r.Outcome.OverallCategory)))
	if r.Outcome.SafetyFlag {
		fmt.Fprintln(w, paint(red, "Safety flag: self-harm item endorsed"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(bold, "Recommendations"))
	for _, rec := range r.Recommendations {
		marker := " "
		if rec.IsUrgent {
			marker = paint(red, "!")
		}
		fmt.Fprintf(w, " %s %d. %s (%s)\n", marker, rec.Priority, rec.Title, rec.ActionURL)
	}
}

func newInstrumentsCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List the questionnaires and their items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range screening.Catalog(lang) {
				fmt.Fprintf(out, "%s: %s (%d items, %d-%d)\n", entry.Code, entry.Name, entry.Questions, entry.MinValue, entry.MaxValue)
				for _, item := range entry.Items {
					rev := ""
					if item.ReverseScored {
						rev = " [reversed]"
					}
					fmt.Fprintf(out, "  %2d. %s%s\n", item.Index+1, item.Stem, rev)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language for names and labels (en, zh)")
	return cmd
}
