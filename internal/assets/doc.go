// Package assets provides the stylesheet and page template of the preview UI.
//
// Assets live in an fs.FS laid out as:
//
//	styles/{name}.css       # e.g. ui.css
//	templates/{name}.html   # e.g. index.html
//
// Embedded returns the built-in set. Dir serves a theme directory through
// an os.Root, so neither ".." nor a symlink can reach outside it. Layers
// chains sources, and NewResolver puts a theme directory in front of the
// built-in set so a theme may override only the stylesheet.
package assets
