// Package model defines shared data types for the conversation transport.
//
// Conventions:
//   - Message IDs: opaque strings, unique within one conversation
//   - Timestamps: ISO-8601 strings as carried on the wire
//   - Roles: "client" (end user) and "lawyer" (counterpart)
package model
