// Package logging provides structured logging configuration for chaosd.
//
// It wraps log/slog to keep logging consistent across the CLI, the fault
// lifecycle manager, and scenario code. Components accept a *slog.Logger;
// use logging.Nop() where logging is disabled.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("fault injected", "id", id, "service", "s3")
package logging
