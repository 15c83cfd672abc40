// Package logging wraps log/slog for TaskDeck Core.
//
// New builds a logger from the logging section of config.yaml: json or
// text output, stdout or stderr, level filtering, and service/version
// attributes stamped on every record. Default() provides a bootstrap
// logger for the window before config is loaded.
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("server started", "port", cfg.API.Port)
//
// Never log bearer tokens or the signing secret. Log the device
// identifier a token resolved to, not the token itself.
package logging
