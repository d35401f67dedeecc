// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

// Package notify is the shared user-notification channel. Screens surface
// every non-fatal failure and every success confirmation through it; no
// error ever escalates to a process-fatal state.
package notify

import "log/slog"

// Notifier receives user-visible notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications through a structured logger. It is the
// console's toast analog.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Success implements Notifier.
func (n *LogNotifier) Success(msg string) {
	n.logger.Info(msg, "notification", "success")
}

// Error implements Notifier.
func (n *LogNotifier) Error(msg string) {
	n.logger.Warn(msg, "notification", "error")
}
