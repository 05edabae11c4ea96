// Package assets turns request paths into script responses.
//
// A request whose path starts with the configured prefix is owned by the
// pipeline. Owned paths containing ".." are refused before any filesystem
// access. The remaining logical path is looked up under each configured base
// segment in order; the first segment holding either the compiled file or its
// source-form sibling wins. Source-form files are transpiled through a
// CompileCache keyed by modification time and base name, and the response
// carries Last-Modified plus the configured Cache-Control. Anything the
// pipeline does not handle is reported as OutcomeDelegate so the host can call
// the next handler.
package assets
