// Package model defines shared domain types used across the realtime client.
//
// Conventions:
//   - Timestamps: time.Time in the client's local clock unless the field name
//     says otherwise (server-originated timestamps keep the server value)
//   - IDs: opaque strings assigned by the platform backend
package model
