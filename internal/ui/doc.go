// Package ui provides terminal UI components for the mipow CLI.
//
// Components follow a "run once and exit" pattern: they render output but
// never ask for input. Styled output is used only when stdout is a
// terminal (see IsTerminal); otherwise the same information is written as
// plain lines so the output stays pipeable.
//
//   - Result: success, warning and failure boxes with troubleshooting tips
//     taken from Bluetooth errors
//   - ScanModel: a Bubble Tea spinner shown while scanning, listing the
//     Playbulbs seen so far
//
// The lipgloss styles in this package are also used by the report
// renderers.
package ui
