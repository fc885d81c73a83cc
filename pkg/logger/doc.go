// Package logger provides a context-aware wrapper around Go's slog package
// with functional options for configuration, helper attribute constructors
// for the checkout domain, and transparent injection of values stored in
// context.Context.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes applied to every record,
// and ContextExtractor callbacks that pull request-scoped values out of the
// context on every Handle call.
//
// Helper constructors such as Error, Email, PlanCode and PaymentID live in
// attr.go and keep attribute naming consistent across the codebase.
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithLevel(slog.LevelInfo),
//		logger.WithAttr(slog.String("service", "checkout")),
//	)
//	log.Info("payment verified", logger.PaymentID("pay_123"))
package logger
