// Package connection implements the conversation transport.
//
// The Manager:
//   - Owns the single WebSocket connection bound to one conversation
//   - Dispatches inbound protocol frames into the state store
//   - Handles reconnection with exponential backoff
//   - Exposes send, typing and read-receipt operations
//
// The reconnect schedule lives in ReconnectPolicy and the typing
// debounce in TypingThrottle; both are pure enough to test in isolation.
package connection
