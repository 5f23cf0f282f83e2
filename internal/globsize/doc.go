// Package globsize provides disk usage statistics for files selected by glob patterns.
//
// Patterns are resolved against a working directory, expanded with fastwalk and
// gobwas/glob, and matched directories are recursed into, except for dependency
// directories (node_modules) that no pattern explicitly targets. Every resulting
// file is stat'ed concurrently and aggregated into a Result that can rank the
// largest files and render them as a text table.
package globsize
