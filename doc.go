// Package book2pdf compiles a book authored as nested HTML sections
// into a single PDF by driving an external wkhtmltopdf-compatible
// renderer.
//
// The pipeline materializes the source tree with an external book
// builder, normalizes the summary document, flattens its nested
// entries into an ordered page list, resolves configured assets into
// the working directory, assembles the renderer's ordered argument
// sequence, and runs the renderer under a hard timeout.
//
// Markdown-to-HTML conversion, stylesheet compilation, and HTML
// normalization are delegated to external tools (the book builder,
// sassc, and tidy); this package orchestrates them.
package book2pdf
