// Package logger provides structured logging for the adapter framework
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.NewDefault("gateway")
//	log = log.WithComponent("adapter")
//	log.Info("call completed", logger.Fields("adapter", "policy-engine", "retries", 2))
package logger
