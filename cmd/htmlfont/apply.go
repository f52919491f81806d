package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/quick"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/fileutil"
	"github.com/alnah/go-htmlfont/internal/hints"
	"github.com/alnah/go-htmlfont/internal/logging"
)

// Terminal highlighting for --stdout.
const (
	highlightLexer     = "html"
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// runApply injects the configured typography into one file or a tree of files.
func runApply(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseApplyFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: apply takes exactly one file or directory", ErrNoInput)
	}

	cfg, envCfg, err := resolveConfig(flags.common, flags.style, env)
	if err != nil {
		return err
	}
	session, err := buildSession(cfg)
	if err != nil {
		return err
	}
	params := session.Params()

	logger := newLogger(flags.common, env)
	ctx = logging.WithLogger(ctx, logger)
	logger.Debug("style", "font", params.Font.Label, "size", params.FontSizePx, "width", params.TableWidthPx)

	if flags.stdout {
		return applyToStdout(positional[0], params, env)
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(positional[0], outputDir, "")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoHTMLFiles, positional[0])
	}

	workers := resolvePoolSize(flags.workers, envCfg.Workers)
	logger.Debug("applying", "files", len(files), "workers", workers)

	progress := logging.Start(logger)
	results := runBatch(ctx, workers, files, func(_ context.Context, job FileJob) Result {
		return applyFile(job, params)
	})

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d (first: %w)", ErrBatchFailed, failed, len(results), firstError(results))
	}
	if flags.common.verbose {
		progress.Done(fmt.Sprintf("Applied %d file(s)", len(results)))
	}
	return nil
}

// applyFile styles one document and writes it to job.OutputPath.
func applyFile(job FileJob, params htmlfont.StyleParams) Result {
	result := Result{OutputPath: job.OutputPath}

	doc, err := readDocumentFile(job.InputPath)
	if err != nil {
		result.Err = err
		return result
	}

	if err := fileutil.EnsureDir(filepath.Dir(job.OutputPath)); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		return result
	}

	data, err := doc.Encode(htmlfont.Render(doc, params))
	if err != nil {
		result.Err = err
		return result
	}
	if err := fileutil.WriteFile(job.OutputPath, data); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}

	result.Detail = htmlfont.LocateInsertion(doc.Content).String()
	return result
}

// applyToStdout writes a single styled document to stdout, highlighted when
// stdout is a terminal.
func applyToStdout(path string, params htmlfont.StyleParams, env *Environment) error {
	doc, err := readDocumentFile(path)
	if err != nil {
		return err
	}
	content := htmlfont.Render(doc, params)

	if env.IsTerminal != nil && env.IsTerminal(env.Stdout) {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, content, highlightLexer, highlightFormatter, highlightStyle); err == nil {
			_, err = buf.WriteTo(env.Stdout)
			return err
		}
	}

	data, err := doc.Encode(content)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}

// outputFileFor returns where a single edited or served document is saved.
// output may be a file path, a directory, or empty.
func outputFileFor(inputPath, output string, cfg *config.Config) string {
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	if output != "" && !fileutil.DirExists(output) && fileutil.HasHTMLExtension(output) {
		return output
	}
	return resolveOutputPath(inputPath, output, "", "")
}
