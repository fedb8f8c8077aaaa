/*
Package log provides structured logging for Stargazer using zerolog.

The package wraps zerolog to provide JSON-structured logging with
component-specific child loggers, configurable log levels, and helpers for
common patterns. All logs carry timestamps and can be filtered by severity.

# Usage

Initializing the logger:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Structured logging:

	log.Logger.Info().
		Str("state", "connected").
		Int("resources", 42).
		Msg("snapshot received")

Child loggers carry a fixed field, one per scope:

	feedLog := log.WithComponent("feed")
	feedLog.Debug().Str("url", wsURL).Msg("dialing stream")

	log.WithNamespace("media").Debug().Msg("namespace summary")
	log.WithService("jellyfin").Debug().Msg("service health")
*/
package log
