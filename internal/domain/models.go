// Package domain defines the wire-level types exchanged with API clients.
//
// Resource payloads (users, worlds, groups, search results) are proxied from
// the upstream bridge API without reinterpretation, so they are modeled as
// untyped Record maps: whatever fields the bridge returns pass through to the
// client unchanged. Only the shapes this service itself authors (validation
// outcomes, connectivity status) are typed structs.
package domain

import "time"

// Record is an opaque JSON object proxied from the upstream bridge API.
// Values are treated as immutable once stored in the cache; enrichment always
// builds a new Record rather than mutating one in place.
type Record = map[string]any

// Validation subject types accepted by the availability check.
const (
	ValidationUsername = "username"
	ValidationEmail    = "email"
)

// ValidationOutcome reports whether a username or email is already registered
// upstream.
//
// Exists and Available are pointers because the check has a deliberate third
// state: when the upstream probe itself fails, both are null — the caller must
// not confuse "could not check" with a confirmed answer in either direction.
// When set, Available is always the negation of Exists.
type ValidationOutcome struct {
	Exists    *bool     `json:"exists"`
	Available *bool     `json:"available"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// Data carries the upstream payload when the subject exists, for clients
	// that want to show who holds the name.
	Data Record `json:"data,omitempty"`
}

// Connectivity states reported by ConnectivityStatus.Status.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusError        = "error"
)

// ConnectivityStatus reports whether the bridge API can reach the platform.
//
// "disconnected" means the bridge answered and said the platform link is
// down; "error" means the bridge itself was unreachable or answered with a
// failure. Callers distinguish the two via Status only — the HTTP status of
// the /api/status endpoint is always 200.
type ConnectivityStatus struct {
	Connected bool      `json:"connected"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// APIData is the raw bridge response, included on a successful probe for
	// debugging.
	APIData any `json:"apiData,omitempty"`
}

// Search kinds and methods accepted by the directory search.
const (
	SearchUsers  = "users"
	SearchWorlds = "worlds"
	SearchGroups = "groups"

	SearchByName = "name"
	SearchByID   = "id"
)

// ValidSearchKind reports whether kind names a searchable directory.
func ValidSearchKind(kind string) bool {
	switch kind {
	case SearchUsers, SearchWorlds, SearchGroups:
		return true
	}
	return false
}

// ValidSearchMethod reports whether method is a supported lookup method.
func ValidSearchMethod(method string) bool {
	return method == SearchByName || method == SearchByID
}

// ValidValidationType reports whether t is a supported availability subject.
func ValidValidationType(t string) bool {
	return t == ValidationUsername || t == ValidationEmail
}
