/*
Package log wraps zerolog for structured, JSON-capable logging. The
cache/lock manager (pkg/cache) logs through it and the CLI configures it
with Init; the format and import/export code does not log.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	storeLog := log.WithStore("settings")
	storeLog.Info().Msg("store loaded")

Component loggers (WithComponent, WithStore, WithDatabase) attach a
single context field and return a plain zerolog.Logger; callers chain
further fields with zerolog's own With() as needed. The package-level
Info/Debug/Warn/Error/Fatal helpers log against the unadorned global
Logger for one-off messages.
*/
package log
