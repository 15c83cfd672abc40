// Package config loads and validates TaskDeck Core configuration.
//
// Values resolve in three layers: hardcoded defaults, then the YAML
// file, then TASKDECK_* environment variables. Load applies all three
// and validates the result, so a *Config in hand is always usable and
// read-only from that point on.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//
// Set the signing secret and the InfluxDB token through environment
// variables (TASKDECK_AUTH_SECRET, TASKDECK_INFLUXDB_TOKEN) rather
// than the file. The signing secret must be at least 32 characters;
// anything shorter makes issued tokens practical to forge.
package config
