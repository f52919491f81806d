package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Override the typography of an HTML report: font family, base size,")
	fmt.Fprintln(w, "and the width of its .gt_table.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  apply      Write font-modified copies of HTML files")
	fmt.Fprintln(w, "  serve      Preview and adjust a document in the browser")
	fmt.Fprintln(w, "  edit       Adjust a document in the terminal")
	fmt.Fprintln(w, "  snapshot   Render a styled document to PNG or PDF")
	fmt.Fprintln(w, "  inspect    Show where the style override will land")
	fmt.Fprintln(w, "  fonts      List available fonts")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'htmlfont help <command>' for details on a specific command.")
}

// printStyleFlags prints the typography flags shared by several commands.
func printStyleFlags(w io.Writer) {
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "  -f, --font <label>        Font from the catalog (see 'htmlfont fonts')")
	fmt.Fprintln(w, "      --font-value <css>    Raw CSS font-family, used verbatim")
	fmt.Fprintln(w, "  -s, --size <px>           Base font size (8-72, default: 16)")
	fmt.Fprintln(w, "      --width <px>          Table width (100-viewport, default: 800)")
	fmt.Fprintln(w, "      --viewport <px>       Viewport width (default: 1200)")
}

// printCommonFlags prints the flags every command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printApplyUsage prints usage for the apply command.
func printApplyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont apply <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write font-modified-<name> copies of HTML files with the style applied.")
	fmt.Fprintln(w, "Directories are searched recursively for .html and .htm files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to input)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --stdout              Print a single result instead of writing it")
	fmt.Fprintln(w)
	printStyleFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont serve [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start a local page to upload a document, adjust its typography,")
	fmt.Fprintln(w, "preview the result, and download it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates/ and styles/ directory")
	fmt.Fprintln(w)
	printStyleFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printEditUsage prints usage for the edit command.
func printEditUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont edit <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pick font, size, and table width in the terminal, then save.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keys: tab field, up/down font, left/right adjust, L system fonts, s save, q quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w)
	printStyleFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printSnapshotUsage prints usage for the snapshot command.
func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont snapshot <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render styled documents in headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --pdf                 Render PDF instead of PNG")
	fmt.Fprintln(w, "      --full-page           Capture the whole page")
	fmt.Fprintln(w, "      --measure             Report the rendered table width")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	printStyleFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont inspect <file> [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the insertion point, target tables, and rules that may")
	fmt.Fprintln(w, "compete with the injected styles.")
}

// printFontsUsage prints usage for the fonts command.
func printFontsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont fonts [--system] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the built-in font catalog, or the fonts installed on this machine.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlfont doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, installed fonts, and the environment.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	usage := map[string]func(io.Writer){
		"apply":    printApplyUsage,
		"serve":    printServeUsage,
		"edit":     printEditUsage,
		"snapshot": printSnapshotUsage,
		"inspect":  printInspectUsage,
		"fonts":    printFontsUsage,
		"doctor":   printDoctorUsage,
	}
	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: htmlfont version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: htmlfont help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fn, ok := usage[args[0]]
		if !ok {
			printUsage(env.Stderr)
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
		fn(env.Stdout)
	}
	return nil
}
