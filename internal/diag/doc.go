// Package diag converts the compiler collaborator's opaque message model
// (reason, fatal flag, offset-only positions) into located diagnostics a
// human can navigate: file, 1-based line, 0-based column, clipped span
// length, and the literal text of the enclosing source line.
//
// The package deliberately holds no state. Locate and Partition are pure
// functions over (message, original document, path); the Bag exists only
// so the CLI can aggregate and order results across a batch.
package diag
