// Package services implements the rate-limited client for the remote task API.
//
// [HabiticaService] is the concrete [Service]: authenticated GETs against the
// Habitica v3 API with the x-client / x-api-user / x-api-key header triple,
// decoding the {success, data} envelope into [models.Task] values.
//
// Every request is scheduled by [Gate], which owns the process-wide
// [RateLimitState]. The gate paces calls with a token bucket and, when the
// reported budget is exhausted, parks callers until the advertised reset
// instant (plus a configured buffer) before re-checking live state. Header
// bookkeeping is last-response-wins; the gate never retries a failed call.
package services
