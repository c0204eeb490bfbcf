// Package api provides the REST client for the consultation platform API.
//
// The transport subsystem uses it for two things only: fetching
// conversation metadata (participants, status) and fetching the message
// history snapshot that seeds the conversation state store. The live
// message channel itself is WebSocket, handled by internal/connection.
package api
