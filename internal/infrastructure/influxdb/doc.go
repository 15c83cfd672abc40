// Package influxdb is the optional metrics sink for TaskDeck Core.
//
// The service records two measurements: http_requests (method, route
// pattern, status class, latency) and auth_events (issuances and gate
// decisions). Both go through the non-blocking batched write API of
// influxdb-client-go v2, so metrics never sit on the request path;
// batch failures come back through the SetOnError callback.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteRequestMetric("GET", "/api/v1/projects", 200, 3.2)
//	client.WriteAuthMetric("issued", "kiosk-7")
//
// The sink is optional. With enabled: false in config.yaml the server
// runs without it and skips every write.
package influxdb
