// Package logger provides a structured logging interface for the monitor.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - File output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "xhsmonitor/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File:  "/var/log/xhsmonitor.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Application started")
//	logger.WithField("user_id", "5ff0e6410000000001008400").Info("Crawl started")
//	logger.WithError(err).Error("Conversion failed")
//
// Tests use NewTestLogger, which records messages in memory instead of
// writing them anywhere.
package logger
