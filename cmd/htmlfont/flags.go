package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds the typography overrides.
type styleFlags struct {
	font      string
	fontValue string
	size      int
	width     int
	viewport  int
}

// applyFlags holds flags for the apply command.
type applyFlags struct {
	common  commonFlags
	style   styleFlags
	output  string
	workers int
	stdout  bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	style     styleFlags
	addr      string
	assetPath string
}

// editFlags holds flags for the edit command.
type editFlags struct {
	common commonFlags
	style  styleFlags
	output string
}

// snapshotFlags holds flags for the snapshot command.
type snapshotFlags struct {
	common   commonFlags
	style    styleFlags
	output   string
	workers  int
	timeout  string
	pdf      bool
	fullPage bool
	measure  bool
}

// fontsFlags holds flags for the fonts command.
type fontsFlags struct {
	common commonFlags
	system bool
	json   bool
}

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addStyleFlags adds typography flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.font, "font", "f", "", "font label from the catalog (see htmlfont fonts)")
	fs.StringVar(&f.fontValue, "font-value", "", "raw CSS font-family value, used verbatim")
	fs.IntVarP(&f.size, "size", "s", 0, "base font size in px (8-72, default: 16)")
	fs.IntVar(&f.width, "width", 0, "table width in px (100-viewport, default: 800)")
	fs.IntVar(&f.viewport, "viewport", 0, "viewport width in px (default: 1200)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlagSet parses args and wraps parse failures as usage errors.
// flag.ErrHelp is returned unwrapped so callers can print help and succeed.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

// parseApplyFlags parses apply command flags and returns positional args.
func parseApplyFlags(args []string, stderr io.Writer) (*applyFlags, []string, error) {
	f := &applyFlags{}
	fs := newFlagSet("apply", printApplyUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.stdout, "stdout", false, "write the result to stdout (single file)")
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, stderr)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: 127.0.0.1:8080)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseEditFlags parses edit command flags and returns positional args.
func parseEditFlags(args []string, stderr io.Writer) (*editFlags, []string, error) {
	f := &editFlags{}
	fs := newFlagSet("edit", printEditUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSnapshotFlags parses snapshot command flags and returns positional args.
func parseSnapshotFlags(args []string, stderr io.Writer) (*snapshotFlags, []string, error) {
	f := &snapshotFlags{}
	fs := newFlagSet("snapshot", printSnapshotUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout per file (e.g., 30s, 2m)")
	fs.BoolVar(&f.pdf, "pdf", false, "render a PDF instead of a PNG")
	fs.BoolVar(&f.fullPage, "full-page", false, "capture the whole page, not only the viewport")
	fs.BoolVar(&f.measure, "measure", false, "report the rendered table width")
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseFontsFlags parses fonts command flags.
func parseFontsFlags(args []string, stderr io.Writer) (*fontsFlags, []string, error) {
	f := &fontsFlags{}
	fs := newFlagSet("fonts", printFontsUsage, stderr)

	fs.BoolVar(&f.system, "system", false, "list fonts installed on this machine")
	fs.BoolVar(&f.json, "json", false, "output as JSON")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags.
func parseInspectFlags(args []string, stderr io.Writer) (*inspectFlags, []string, error) {
	f := &inspectFlags{}
	fs := newFlagSet("inspect", printInspectUsage, stderr)

	fs.BoolVar(&f.json, "json", false, "output as JSON")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
