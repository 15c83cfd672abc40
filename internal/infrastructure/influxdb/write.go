package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRequestMetric records a completed HTTP request.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - method: HTTP method (e.g., "GET")
//   - route: The matched route pattern, not the raw path, to keep tag
//     cardinality low (e.g., "/api/v1/projects/{projectID}")
//   - status: Response status code
//   - durationMs: Wall-clock handling time in milliseconds
func (c *Client) WriteRequestMetric(method, route string, status int, durationMs float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"http_requests",
		map[string]string{
			"method": method,
			"route":  route,
			"status": statusClass(status),
		},
		map[string]interface{}{
			"status_code": status,
			"duration_ms": durationMs,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAuthMetric records an authentication event: a token issuance or
// a gate decision.
//
// Parameters:
//   - event: One of "issued", "authorized", "rejected"
//   - deviceID: Device identifier, or "" when the request never
//     presented a decodable identity
func (c *Client) WriteAuthMetric(event, deviceID string) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{"event": event}
	point := write.NewPoint(
		"auth_events",
		tags,
		map[string]interface{}{
			"count":     1,
			"device_id": deviceID,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// statusClass buckets a status code into "2xx", "4xx", etc. for use as
// a low-cardinality tag.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
