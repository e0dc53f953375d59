// Package logger defines the structured logging boundary. Components take
// the interface; binaries decide between the zap implementation and the
// no-op one.
package logger

// Logger is the minimal structured logging surface the pipeline needs.
// Fields are a flat key/value map attached to the message.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// NoopLogger discards everything. Components default to it when constructed
// without a logger.
type NoopLogger struct{}

func (NoopLogger) Debug(string, map[string]any) {}
func (NoopLogger) Info(string, map[string]any)  {}
func (NoopLogger) Warn(string, map[string]any)  {}
func (NoopLogger) Error(string, map[string]any) {}
