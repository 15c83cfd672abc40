// Package api provides the HTTP REST API for TaskDeck Core.
//
// It exposes token issuance, session management, and project/task CRUD
// to device clients (kiosk tablets, CLI tooling, integrations).
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Every route under /api/v1 except health and token issuance sits
// behind the bearer-token gate. Authentication failures are a uniform
// 401; only a missing signing secret surfaces as a 500.
package api
