package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitlit/internal/logger"
)

// Hinter is implemented by errors that carry a suggestion for the user.
type Hinter interface {
	Hint() string
}

// Format formats an error message with a consistent "Error: " prefix. If any
// error in the chain carries a hint, it is appended on its own line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var h Hinter
	if errors.As(err, &h) && h.Hint() != "" {
		msg += "\nHint: " + h.Hint()
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Warn logs err and prints it to w with a "Warning: " prefix. It is used for
// failures that don't stop the command, such as a failed save.
func Warn(w io.Writer, err error) {
	if err == nil {
		return
	}
	logger.Warn("Non-fatal error", "error", err)
	fmt.Fprintf(w, "Warning: %v\n", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
