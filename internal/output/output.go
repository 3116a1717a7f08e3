// Package output provides styled terminal output for the plume CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	writer      io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled
func IsVerbose() bool {
	return verboseMode
}

// SetWriter redirects output, mainly for tests. nil restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// Success prints a success message.
//
// Example:
//
//	output.Success("Augmented 3 models")
func Success(msg string) {
	fmt.Fprintln(writer, successStyle.Render("🪶 "+msg))
}

// Error prints an error message that needs user attention.
func Error(msg string) {
	fmt.Fprintln(writer, errorStyle.Render("❌ "+msg))
}

// Warn prints a warning that does not stop the run.
func Warn(msg string) {
	fmt.Fprintln(writer, warnStyle.Render("⚠️  "+msg))
}

// Info prints an informational message.
func Info(msg string) {
	fmt.Fprintln(writer, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("OrderService.placeOrder(email)")
func Step(msg string) {
	fmt.Fprintln(writer, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(writer, stepStyle.Render("🔍 "+msg))
	}
}
