// Package errors defines gitclerk's error taxonomy and the handler that
// routes failures to the console and a structured log file.
package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gitclerk/internal/ui"
)

const (
	logFileName = "gitclerk.log"
	maxLogSize  = 10 * 1024 * 1024
	maxLogFiles = 5
)

// ErrorHandler writes failures twice: a JSON record to the log file and a
// formatted message to the console.
type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

func NewErrorHandler() (*ErrorHandler, error) {
	logFile, err := openLogFile()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &ErrorHandler{
		logger:  logger,
		console: ui.NewConsole(),
	}, nil
}

// logDir resolves where log files live: the GITCLERK_LOG_DIR override first,
// then the OS-standard location for the platform.
func logDir() string {
	if custom := os.Getenv("GITCLERK_LOG_DIR"); custom != "" {
		return custom
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "GitClerk")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "GitClerk", "logs")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "GitClerk", "logs")
	case "linux", "freebsd", "openbsd", "netbsd":
		return filepath.Join(homeDir, ".local", "share", "gitclerk", "logs")
	default:
		return filepath.Join(homeDir, ".gitclerk", "logs")
	}
}

func openLogFile() (*os.File, error) {
	dir := logDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot use log directory %s: %v. Falling back to the current directory.\n", dir, err)
		dir = "."
	}

	logPath := filepath.Join(dir, logFileName)
	if err := rotateIfNeeded(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to rotate log file: %v\n", err)
	}

	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

// rotateIfNeeded shifts older log generations up one slot and starts a fresh
// file once the current one exceeds maxLogSize. The oldest generation is
// dropped.
func rotateIfNeeded(logPath string) error {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() < maxLogSize {
		return nil
	}

	for i := maxLogFiles - 1; i >= 1; i-- {
		old := fmt.Sprintf("%s.%d", logPath, i)
		if _, err := os.Stat(old); err != nil {
			continue
		}
		if i == maxLogFiles-1 {
			_ = os.Remove(old)
			continue
		}
		_ = os.Rename(old, fmt.Sprintf("%s.%d", logPath, i+1))
	}

	return os.Rename(logPath, logPath+".1")
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var clerkErr *ClerkError
	if errors.As(err, &clerkErr) {
		h.handleClerkError(clerkErr)
		return
	}
	h.handleGenericError(err)
}

func (h *ErrorHandler) handleClerkError(err *ClerkError) {
	h.logStructuredError(err)

	message := h.console.FormatErrorMessage(err.Context, err.Cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *ClerkError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("type", errorTypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}
	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "GitClerk error occurred", logAttrs...)
}

func errorTypeName(errType error) string {
	switch errType {
	case ErrConfigInvalid:
		return "config_invalid"
	case ErrRepoUnavailable:
		return "repo_unavailable"
	case ErrPublishFailed:
		return "publish_failed"
	case ErrRemoteFailed:
		return "remote_failed"
	case ErrKeyInstallFailed:
		return "key_install_failed"
	case ErrSCMFailed:
		return "scm_failed"
	case ErrJournalFailed:
		return "journal_failed"
	default:
		return "unknown"
	}
}
