package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/render"
	"github.com/LeoncioDev/github-analyzer/internal/tui"
)

const defaultWidth = 80

var (
	rawOutput bool
	noSpinner bool
)

// addOutputFlags registers the flags shared by the one-shot commands.
func addOutputFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&rawOutput, "raw", false, "print the result HTML instead of rendered text")
	flags.BoolVar(&noSpinner, "no-spinner", false, "do not show a progress spinner on stderr")
}

// submit runs req and writes the result to w.
func submit(ctx context.Context, a *app, req controller.Request, label string, w io.Writer) error {
	run := func(ctx context.Context) (string, error) {
		out, err := a.ctrl.Submit(ctx, req)
		return out.HTML, err
	}

	var html string
	var err error
	if noSpinner || !term.IsTerminal(int(os.Stderr.Fd())) {
		html, err = run(ctx)
	} else {
		html, err = tui.RunLoader(ctx, label, run)
	}
	if err != nil {
		return err
	}

	if rawOutput {
		_, err = fmt.Fprintln(w, html)
		return err
	}
	r := render.New(a.themes.Styles().Result, outputWidth())
	_, err = fmt.Fprintln(w, r.Render(html))
	return err
}

// outputWidth is the terminal width of stdout, or defaultWidth when stdout
// is not a terminal.
func outputWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
