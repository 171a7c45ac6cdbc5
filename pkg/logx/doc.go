// Package logx wraps zerolog behind a small fielded-logger API whose zero
// value is safe to use. The Service variant supports swapping level and
// sinks at runtime when the config file changes.
package logx
