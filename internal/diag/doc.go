// Package diag defines the violation model shared by every check.
//
// # Data model
//
// Diagnostic is the central record: a rule Code, the Path of the offending
// file, a 1-based Line and the Message printed to the user. Two degenerate
// forms exist:
//
//   - Line 0 is a file-level finding (for example a non-ASCII byte somewhere
//     in the file).
//   - An empty Path is a project-level finding (for example inconsistent
//     version numbers).
//
// String renders the canonical one-line form used by the text output:
// "path:line: message", "path: message" or "message".
//
// # Emitting diagnostics
//
// Checks never print. They receive a Reporter and call Report (or the
// ReportCode helper). The driver wires a BagReporter so that every finding
// lands in a Bag, optionally fanned out with MultiReporter to a streaming
// printer.
//
// Bag is append-only. Its length is the violation count of the run; nothing
// resets it between checks.
package diag
