// Package auth provides device-identity authentication for TaskDeck Core.
//
// Devices authenticate once via POST /auth/token and present the issued
// bearer token on every subsequent request. The model is deliberately
// simple:
//   - HS256-signed JWTs carrying a device identifier plus issued-at and
//     expiry timestamps (no roles, no scopes)
//   - An in-memory session registry tracking the most recent token per
//     device, so the service can report and revoke live sessions
//   - A uniform 401 for every client-side credential failure; callers
//     never learn whether a token was expired, malformed, or forged
//
// Supersession is lenient: issuing a new token for a device replaces its
// registry session but does not invalidate the previous token's
// signature. Both tokens decode successfully until their own expiry.
// Hard revocation requires checking the registry, which only the session
// endpoints do.
package auth
