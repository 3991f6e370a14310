package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/lifemap/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Alert turns an error from a remote collaborator (database, narrator, proxy) into the
// one-line message shown to the user. The message is kept verbatim; the root cause is
// appended only when a wrapper hid it.
func Alert(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	if root != err && !strings.Contains(msg, root.Error()) {
		return fmt.Sprintf("%s (%s)", msg, root.Error())
	}
	return msg
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
