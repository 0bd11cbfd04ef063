package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mdxc/internal/diag"
	"mdxc/internal/driver"
	"mdxc/internal/ui"
)

type compileOutcome struct {
	results []driver.FileResult
	bag     *diag.Bag
	err     error
}

// runCompileDirWithUI drives a batch compile behind the Bubble Tea
// progress model. The compile runs in its own goroutine and feeds events
// to the model; closing the channel quits the program.
func runCompileDirWithUI(ctx context.Context, dir string, opts driver.Options, jobs, maxDiagnostics int) ([]driver.FileResult, *diag.Bag, error) {
	files, err := driver.ListDocuments(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		results, bag, err := driver.CompileDir(ctx, dir, opts, jobs, maxDiagnostics, events)
		outcomeCh <- compileOutcome{results: results, bag: bag, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("compiling %s", dir), files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.bag, uiErr
	}
	return outcome.results, outcome.bag, outcome.err
}

// shouldUseTUI решает, показывать ли интерактивный прогресс.
func shouldUseTUI(mode string, quiet bool) (bool, error) {
	switch mode {
	case "tui":
		return true, nil
	case "plain":
		return false, nil
	case "auto":
		return !quiet && isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("unsupported --ui mode %q (must be auto, plain or tui)", mode)
	}
}
