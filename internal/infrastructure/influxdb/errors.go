package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when the influxdb section of
	// the config has enabled: false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed wraps ping failures during Connect.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by HealthCheck after Close, or when
	// the connection was never established.
	ErrNotConnected = errors.New("influxdb: not connected")
)
