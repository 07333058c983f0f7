// Package logger provides structured logging for rxkit using zerolog.
//
// Subjects, the topic bus, the SSE bridge and the HTTP server log through
// component-scoped loggers obtained from this package.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("subject")
//	log.Debug("value delivered", logger.Fields(logger.FieldSubject, "ticks"))
package logger
