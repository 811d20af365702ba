// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"adalyze/internal/checkers"
	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/interp"
	"adalyze/internal/ir"
)

type options struct {
	checkerNames   []string
	mergePredicate string
	wideningDelay  int
	maxIterations  int
	jsonOutput     bool
	verbose        int
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "adalyze <file.air> [files...]",
		Short: "Abstract-interpretation static analyzer for lowered procedures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(opts.verbose, nil)
			return run(opts, args)
		},
		SilenceUsage: true,
	}

	root.Flags().StringSliceVar(&opts.checkerNames, "checker", nil,
		"checkers to run (default: all)")
	root.Flags().StringVar(&opts.mergePredicate, "merge-predicate", "always",
		"trace merge predicate: always or last-<k>")
	root.Flags().IntVar(&opts.wideningDelay, "widening-delay", 3,
		"loop iterations before widening")
	root.Flags().IntVar(&opts.maxIterations, "max-iterations", 20000,
		"worklist iteration budget per analysis")
	root.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"emit findings as JSON")
	root.Flags().IntVarP(&opts.verbose, "verbose", "v", 0,
		"logging verbosity")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options, files []string) error {
	selected, err := selectCheckers(opts.checkerNames)
	if err != nil {
		return err
	}
	merge, err := eval.MergePredicateByName(opts.mergePredicate)
	if err != nil {
		return err
	}
	evalOpts := eval.Options{
		Merge:         merge,
		WideningDelay: opts.wideningDelay,
		MaxIterations: opts.maxIterations,
	}

	var all []errors.Diagnostic

	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		prog, err := ir.ParseSource(file, string(source))
		if err != nil {
			reportParseError(string(source), err)
			return fmt.Errorf("could not parse %s", file)
		}
		ir.RewriteUniversalTypes(prog)

		analyzer := eval.NewAnalyzer(prog, interp.DefaultInterpreter(), evalOpts)
		results := analyzer.Run(context.Background())

		var findings []errors.Diagnostic
		for _, checker := range selected {
			findings = append(findings, checker.Run(prog, results)...)
		}
		all = append(all, findings...)

		if !opts.jsonOutput {
			reporter := errors.NewReporter(file, string(source))
			for _, d := range findings {
				fmt.Print(reporter.Format(d))
			}
		}
	}

	if opts.jsonOutput {
		encoded, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	if len(all) == 0 {
		color.Green("✅ no findings in %d file(s)", len(files))
	} else {
		color.Yellow("%d finding(s) in %d file(s)", len(all), len(files))
	}
	return nil
}

func selectCheckers(names []string) ([]checkers.Checker, error) {
	if len(names) == 0 {
		return checkers.All(), nil
	}
	var selected []checkers.Checker
	for _, name := range names {
		c, ok := checkers.ByName(name)
		if !ok {
			available := make([]string, 0, len(checkers.All()))
			for _, known := range checkers.All() {
				available = append(available, known.Name())
			}
			return nil, fmt.Errorf("unknown checker %q (available: %s)",
				name, strings.Join(available, ", "))
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("❌ Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", pe.Message())
}
