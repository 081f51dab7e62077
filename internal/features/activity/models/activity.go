package models

import "time"

// Activity types recorded by the platform.
const (
	ActivityWalletConnected = "wallet_connected"
	ActivityProfileUpdate   = "profile_update"
	ActivityCourseComplete  = "course_complete"
	ActivityXPGained        = "xp_gained"
)

// ActivityEvent is an immutable, append-only record of a user action.
type ActivityEvent struct {
	ID            string                 `json:"id"`
	WalletAddress string                 `json:"wallet_address"`
	ActivityType  string                 `json:"activity_type"`
	Metadata      map[string]interface{} `json:"metadata"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Connection event types.
const (
	ConnTypeConnect             = "connect"
	ConnTypeDisconnect          = "disconnect"
	ConnTypeVerificationSuccess = "verification_success"
	ConnTypeVerificationFailed  = "verification_failed"
	ConnTypeReconnect           = "reconnect"
	ConnTypeError               = "error"
)

// ConnectionEvent is an immutable record of a wallet connection lifecycle
// event. Provider identifies the wallet extension (e.g. phantom, solflare).
type ConnectionEvent struct {
	ID                  string                 `json:"id"`
	WalletAddress       string                 `json:"wallet_address"`
	ConnectionType      string                 `json:"connection_type"`
	Provider            string                 `json:"provider"`
	SessionData         map[string]interface{} `json:"session_data,omitempty"`
	VerificationResult  map[string]interface{} `json:"verification_result,omitempty"`
	ConnectionTimestamp time.Time              `json:"connection_timestamp"`
}

// IsSuccessful reports whether the event counts toward the connection
// success rate.
func (e ConnectionEvent) IsSuccessful() bool {
	switch e.ConnectionType {
	case ConnTypeConnect, ConnTypeVerificationSuccess, ConnTypeReconnect:
		return true
	}
	return false
}
