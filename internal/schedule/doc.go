// Package schedule keeps the durable announcement book and the due-message
// dispatcher.
//
// The book deduplicates by trigger time with a 60-second tolerance and seeds
// the fixed wedding reminders idempotently across restarts. The dispatcher
// drains due entries at-most-once per trigger.
package schedule
