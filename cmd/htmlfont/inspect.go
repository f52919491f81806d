package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-htmlfont/internal/htmlinfo"
)

// inspectOutput is the JSON form of an inspection.
type inspectOutput struct {
	File            string   `json:"file"`
	Title           string   `json:"title,omitempty"`
	Charset         string   `json:"charset,omitempty"`
	Insertion       string   `json:"insertion"`
	Tables          int      `json:"tables"`
	TableIDs        []string `json:"tableIds,omitempty"`
	StyleBlocks     int      `json:"styleBlocks"`
	Injected        int      `json:"injected"`
	Stylesheets     []string `json:"stylesheets,omitempty"`
	InlineImportant int      `json:"inlineImportant"`
	Warnings        []string `json:"warnings,omitempty"`
}

// runInspect reports how a document will receive the style override.
func runInspect(_ context.Context, args []string, env *Environment) error {
	flags, positional, err := parseInspectFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: inspect takes exactly one file", ErrNoInput)
	}

	doc, err := readDocumentFile(positional[0])
	if err != nil {
		return err
	}
	report, err := htmlinfo.Inspect(doc.Content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	out := inspectOutput{
		File:            positional[0],
		Title:           report.Title,
		Charset:         report.Charset,
		Insertion:       report.Insertion.String(),
		Tables:          report.Tables,
		TableIDs:        report.TableIDs,
		StyleBlocks:     report.StyleBlocks,
		Injected:        report.Injected,
		Stylesheets:     report.Stylesheets,
		InlineImportant: report.InlineImportant,
		Warnings:        report.Warnings(),
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printInspect(env.Stdout, &out)
	return nil
}

// printInspect outputs a human-readable report.
func printInspect(w io.Writer, r *inspectOutput) {
	fmt.Fprintln(w, styleTitle.Render(r.File))
	row := func(label, value string) {
		fmt.Fprintf(w, "  %-14s %s\n", label, styleValue.Render(value))
	}

	title := r.Title
	if title == "" {
		title = "(none)"
	}
	charset := r.Charset
	if charset == "" {
		charset = "(not declared)"
	}
	row("Title", title)
	row("Charset", charset)
	row("Insertion", r.Insertion)

	tables := fmt.Sprint(r.Tables)
	if len(r.TableIDs) > 0 {
		tables += " (" + strings.Join(r.TableIDs, ", ") + ")"
	}
	row("Tables", tables)
	row("Style blocks", fmt.Sprintf("%d (%d from htmlfont)", r.StyleBlocks, r.Injected))
	row("Stylesheets", fmt.Sprint(len(r.Stylesheets)))

	if len(r.Warnings) == 0 {
		fmt.Fprintf(w, "\n%s Ready for styling\n", markOK)
		return
	}
	fmt.Fprintln(w)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", markWarn, warn)
	}
}
