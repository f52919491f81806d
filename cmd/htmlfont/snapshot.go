package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/fileutil"
	"github.com/alnah/go-htmlfont/internal/hints"
	"github.com/alnah/go-htmlfont/internal/logging"
	"github.com/alnah/go-htmlfont/internal/render"
)

// snapshotJob bundles what every snapshot worker needs.
type snapshotJob struct {
	pool    *RendererPool
	params  htmlfont.StyleParams
	opts    *render.Options
	pdf     bool
	measure bool
}

// runSnapshot renders styled documents in headless Chrome to PNG or PDF.
func runSnapshot(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSnapshotFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: snapshot takes exactly one file or directory", ErrNoInput)
	}

	cfg, envCfg, err := resolveConfig(flags.common, flags.style, env)
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		cfg.Snapshot.Timeout = flags.timeout
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	session, err := buildSession(cfg)
	if err != nil {
		return err
	}

	pdf := flags.pdf || strings.EqualFold(cfg.Snapshot.Format, config.SnapshotPDF)
	ext := ".png"
	if pdf {
		ext = ".pdf"
	}

	files, err := discoverFiles(positional[0], resolveOutputDir(flags.output, cfg), ext)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoHTMLFiles, positional[0])
	}

	logger := newLogger(flags.common, env)
	ctx = logging.WithLogger(ctx, logger)

	workers := min(resolvePoolSize(flags.workers, envCfg.Workers), len(files))
	pool := NewRendererPool(workers, cfg.SnapshotTimeout(), env.NewRenderer)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing browsers", "err", err)
		}
	}()

	job := &snapshotJob{
		pool:   pool,
		params: session.Params(),
		opts: &render.Options{
			ViewportWidth: cfg.ViewportWidth(),
			FullPage:      flags.fullPage || cfg.Snapshot.FullPage,
		},
		pdf:     pdf,
		measure: flags.measure,
	}
	logger.Debug("rendering", "files", len(files), "browsers", workers, "viewport", job.opts.ViewportWidth)

	progress := logging.Start(logger)
	results := runBatch(ctx, workers, files, job.process)

	failed := printResults(results, flags.common.quiet, flags.common.verbose || flags.measure, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d (first: %w)%s", ErrBatchFailed, failed, len(results), firstError(results), snapshotHints(results))
	}
	if flags.common.verbose {
		progress.Done(fmt.Sprintf("Rendered %d file(s)", len(results)))
	}
	return nil
}

// process renders one file with a pooled browser.
func (j *snapshotJob) process(ctx context.Context, f FileJob) Result {
	result := Result{OutputPath: f.OutputPath}

	doc, err := readDocumentFile(f.InputPath)
	if err != nil {
		result.Err = err
		return result
	}
	// Chrome decodes the page by its own charset declaration.
	encoded, err := doc.Encode(htmlfont.Render(doc, j.params))
	if err != nil {
		result.Err = err
		return result
	}
	content := string(encoded)

	r := j.pool.Acquire()
	defer j.pool.Release(r)

	var data []byte
	if j.pdf {
		data, err = r.PDF(ctx, content, j.opts)
	} else {
		data, err = r.Screenshot(ctx, content, j.opts)
	}
	if err != nil {
		result.Err = err
		return result
	}

	if j.measure {
		width, err := r.MeasureTable(ctx, content, j.opts)
		switch {
		case err != nil:
			logging.FromContext(ctx).Warn("measuring table", "file", f.InputPath, "err", err)
		case width < 0:
			result.Detail = "no ." + htmlfont.TableClass + " rendered"
		default:
			result.Detail = fmt.Sprintf("table width %.0fpx (requested %dpx)", width, j.params.TableWidthPx)
		}
	}

	if err := fileutil.EnsureDir(filepath.Dir(f.OutputPath)); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		return result
	}
	if err := fileutil.WriteFile(f.OutputPath, data); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return result
}

// firstError returns the error of the first failed result.
func firstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// snapshotHints returns a hint for the first browser-related failure.
func snapshotHints(results []Result) string {
	for _, r := range results {
		switch {
		case errors.Is(r.Err, render.ErrBrowserConnect):
			return hints.ForBrowserConnect()
		case errors.Is(r.Err, render.ErrPageLoad), errors.Is(r.Err, context.DeadlineExceeded):
			return hints.ForTimeout()
		}
	}
	return ""
}
