package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-htmlfont/internal/fileutil"
	"github.com/alnah/go-htmlfont/internal/hints"
	"github.com/alnah/go-htmlfont/internal/tui"
)

// ErrEditorUnavailable is returned when no editor runner is configured.
var ErrEditorUnavailable = errors.New("terminal editor unavailable")

// runEdit opens the terminal editor on a document and saves the result
// when the user confirms.
func runEdit(_ context.Context, args []string, env *Environment) error {
	flags, positional, err := parseEditFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: edit takes exactly one file", ErrNoInput)
	}
	if env.RunEditor == nil {
		return ErrEditorUnavailable
	}

	cfg, _, err := resolveConfig(flags.common, flags.style, env)
	if err != nil {
		return err
	}
	session, err := buildSession(cfg)
	if err != nil {
		return err
	}

	doc, err := readDocumentFile(positional[0])
	if err != nil {
		return err
	}
	session.Load(doc)

	final, err := env.RunEditor(tui.New(session, env.Fonts))
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	if !final.Saved() {
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "Discarded changes")
		}
		return nil
	}

	_, data, err := session.Export()
	if err != nil {
		return err
	}

	out := outputFileFor(positional[0], flags.output, cfg)
	if err := fileutil.EnsureDir(filepath.Dir(out)); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFile(out, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if !flags.common.quiet {
		p := session.Params()
		fmt.Fprintf(env.Stdout, "Created %s\n", out)
		fmt.Fprintln(env.Stdout, styleDim.Render(fmt.Sprintf("  %s, %dpx, table %dpx", p.Font.Label, p.FontSizePx, p.TableWidthPx)))
	}
	return nil
}
