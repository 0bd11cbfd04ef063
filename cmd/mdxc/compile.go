package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mdxc/internal/diag"
	"mdxc/internal/driver"
	"mdxc/internal/observ"
	"mdxc/internal/source"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <path>",
	Short: "Compile markdown documents into module text",
	Long: `Compile a markdown/MDX document (or every document under a directory)
into module text. Use "-" to read a single document from stdin.`,
	Args:          cobra.ExactArgs(1),
	RunE:          compileExecution,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "write module text to file (single document only)")
	compileCmd.Flags().String("diag", "pretty", "diagnostic output format (pretty|json)")
	compileCmd.Flags().String("theme", "", "default snippet theme")
	compileCmd.Flags().Int("jobs", 0, "parallel compilations for directory input (0 = GOMAXPROCS)")
	compileCmd.Flags().String("ui", "auto", "progress UI for directory input (auto|plain|tui)")
}

func compileExecution(cmd *cobra.Command, args []string) error {
	diagFormat, err := cmd.Flags().GetString("diag")
	if err != nil {
		return err
	}
	if diagFormat != "pretty" && diagFormat != "json" {
		return fmt.Errorf("unsupported --diag format %q (must be pretty or json)", diagFormat)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	themeFlag, err := cmd.Flags().GetString("theme")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	colored, err := resolveColor(cmd)
	if err != nil {
		return err
	}

	opts := driver.Options{Theme: themeFlag}
	if manifest, found, err := loadProjectManifest("."); err != nil {
		return err
	} else if found {
		applyManifest(&opts, manifest, themeFlag)
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	target := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if target != "-" {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			return compileDirectory(cmd, ctx, target, opts, jobs, maxDiagnostics, diagFormat, uiValue, colored)
		}
	}
	return compileSingle(cmd, ctx, target, opts, outputPath, maxDiagnostics, diagFormat, colored, timer)
}

func compileSingle(cmd *cobra.Command, ctx context.Context, target string, opts driver.Options, outputPath string, maxDiagnostics int, diagFormat string, colored bool, timer *observ.Timer) error {
	doc, err := loadTarget(cmd, target)
	if err != nil {
		return err
	}

	res, err := driver.Compile(ctx, doc.Path, string(doc.Content), opts)
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), res.Errors, res.Warnings, diagFormat, maxDiagnostics, colored)
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: compilation failed with %d error(s)", doc.Path, len(res.Errors))
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(res.Contents), 0o644); err != nil {
			return fmt.Errorf("write %q: %w", outputPath, err)
		}
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), res.Contents)
	return err
}

func compileDirectory(cmd *cobra.Command, ctx context.Context, dir string, opts driver.Options, jobs, maxDiagnostics int, diagFormat, uiValue string, colored bool) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	useTUI, err := shouldUseTUI(uiValue, quiet)
	if err != nil {
		return err
	}

	var results []driver.FileResult
	var bag *diag.Bag
	if useTUI {
		results, bag, err = runCompileDirWithUI(ctx, dir, opts, jobs, maxDiagnostics)
	} else {
		results, bag, err = driver.CompileDir(ctx, dir, opts, jobs, maxDiagnostics, nil)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, fr := range results {
		if fr.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", fr.Path, fr.Err)
			continue
		}
		if len(fr.Result.Errors) > 0 {
			failed++
			continue
		}
		out := outputNameFor(fr.Path)
		if err := os.WriteFile(out, []byte(fr.Result.Contents), 0o644); err != nil {
			return fmt.Errorf("write %q: %w", out, err)
		}
	}

	errs, warns := splitBag(bag)
	printDiagnostics(cmd.ErrOrStderr(), errs, warns, diagFormat, maxDiagnostics, colored)

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "compiled %d document(s), %d failed\n", len(results), failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed to compile", failed)
	}
	return nil
}

func loadTarget(cmd *cobra.Command, target string) (*source.Document, error) {
	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source.NewVirtual("<stdin>", content), nil
	}
	return source.Load(target)
}

// outputNameFor derives the module path for a compiled document.
func outputNameFor(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".jsx"
}

func applyManifest(opts *driver.Options, manifest *projectManifest, themeFlag string) {
	// Флаги командной строки имеют приоритет над манифестом.
	if themeFlag == "" {
		opts.Theme = manifest.Config.Snippet.Theme
	}
	opts.Component = manifest.Config.Snippet.Component
	opts.ComponentModule = manifest.Config.Snippet.Module
	opts.ExcerptSeparator = manifest.Config.Compile.ExcerptSeparator
}

func splitBag(bag *diag.Bag) (errs, warns []diag.Located) {
	for _, d := range bag.Items() {
		if d.IsError() {
			errs = append(errs, d)
		} else {
			warns = append(warns, d)
		}
	}
	return errs, warns
}

func resolveColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		color.NoColor = false
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stderr), nil
	default:
		return false, fmt.Errorf("unsupported --color mode %q (must be auto, on or off)", mode)
	}
}
