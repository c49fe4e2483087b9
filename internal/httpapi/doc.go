// Package httpapi exposes the reading list over HTTP with gin.
//
// Routes live under /api/v1. The health probe is always public; every other
// route passes through optional bearer-token auth and a per-client token
// bucket. Responses use a single envelope: {"success": true, "data": ...} on
// success and {"success": false, "error": {"code", "message"}} on failure.
package httpapi
