package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/hints"
	"github.com/alnah/go-htmlfont/internal/logging"
)

// systemFontsTimeout bounds font enumeration for the fonts command.
const systemFontsTimeout = time.Minute

// runFonts prints the built-in catalog, or the installed fonts with --system.
func runFonts(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFontsFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: fonts takes no arguments", ErrInvalidArgs)
	}

	logger := newLogger(flags.common, env)
	session := htmlfont.NewSession(0)

	if flags.system {
		ctx, cancel := context.WithTimeout(logging.WithLogger(ctx, logger), systemFontsTimeout)
		defer cancel()

		progress := logging.Start(logger)
		if err := session.LoadSystemFonts(ctx, env.Fonts); err != nil {
			if errors.Is(err, htmlfont.ErrFontsUnsupported) || errors.Is(err, htmlfont.ErrFontsUnavailable) {
				return fmt.Errorf("%w%s", err, hints.ForSystemFonts())
			}
			return err
		}
		if flags.common.verbose {
			progress.Done(fmt.Sprintf("Found %d font families", session.Catalog().Len()))
		}
	}

	catalog := session.Catalog()
	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	}
	printCatalog(env.Stdout, catalog)
	return nil
}

// printCatalog lists fonts grouped by category.
func printCatalog(w io.Writer, catalog htmlfont.Catalog) {
	for i, g := range catalog.Groups() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, styleTitle.Render(g.Title))
		for _, f := range g.Fonts {
			fmt.Fprintf(w, "  %-24s %s\n", styleValue.Render(f.Label), styleDim.Render(f.Value))
		}
	}
}
