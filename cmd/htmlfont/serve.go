package main

import (
	"context"
	"fmt"
	"net"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/assets"
	"github.com/alnah/go-htmlfont/internal/logging"
	"github.com/alnah/go-htmlfont/internal/preview"
)

// runServe starts the preview server, optionally preloading a document.
// It blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: serve takes at most one file", ErrInvalidArgs)
	}

	cfg, _, err := resolveConfig(flags.common, flags.style, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Serve.Addr = flags.addr
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	// Validate the style once so a bad --font fails before listening.
	if _, err := buildSession(cfg); err != nil {
		return err
	}

	var doc *htmlfont.Document
	if len(positional) == 1 {
		d, err := readDocumentFile(positional[0])
		if err != nil {
			return err
		}
		doc = &d
	}

	loader, err := assets.NewResolver(cfg.Assets.BasePath)
	if err != nil {
		return err
	}

	logger := newLogger(flags.common, env)
	srv, err := preview.New(preview.Options{
		NewSession: func() *htmlfont.Session {
			s, _ := buildSession(cfg)
			if doc != nil {
				s.Load(*doc)
			}
			return s
		},
		Fonts:  env.Fonts,
		Assets: loader,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx = logging.WithLogger(ctx, logger)
	return srv.ListenAndServe(ctx, cfg.Serve.Addr, func(addr net.Addr) {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Serving on %s\n", styleTitle.Render("http://"+addr.String()))
			fmt.Fprintln(env.Stdout, styleDim.Render("Press Ctrl+C to stop"))
		}
		if doc != nil {
			logger.Info("document preloaded", "file", doc.Name)
		}
	})
}
