package store

import (
	"database/sql"
	"time"
)

// Transfer stage statuses reported by the transport layer. The set is
// open-ended; these are the stages the resolver cares about.
const (
	TransferStagePending   = "pending"
	TransferStageQueued    = "queued"
	TransferStageStarted   = "started"
	TransferStageCompleted = "completed"
	TransferStageErrored   = "errored"
)

// Content request reasons.
const (
	ReasonUserInitiated = "UserInitiated"
	ReasonSyncInitiated = "SyncInitiated"
)

// Sentiment classifies a device-reported status code so unrecognized
// codes can still be interpreted.
type Sentiment int

const (
	SentimentNegative Sentiment = -1
	SentimentNeutral  Sentiment = 0
	SentimentPositive Sentiment = 1
)

// SyncSession is one negotiated sync attempt between two peer devices.
type SyncSession struct {
	ID                    string         `db:"id"`
	StartTimestamp        time.Time      `db:"start_timestamp"`
	LastActivityTimestamp time.Time      `db:"last_activity_timestamp"`
	Active                bool           `db:"active"`
	Queued                bool           `db:"queued"`
	IsServer              bool           `db:"is_server"`
	ClientInstanceID      sql.NullString `db:"client_instance_id"`
	ServerInstanceID      sql.NullString `db:"server_instance_id"`
}

// TransferSession is one data-transfer attempt nested under a sync
// session. Several may exist per session over time.
type TransferSession struct {
	ID                    string    `db:"id"`
	SyncSessionID         string    `db:"sync_session_id"`
	TransferStageStatus   string    `db:"transfer_stage_status"`
	Active                bool      `db:"active"`
	Push                  bool      `db:"push"`
	LastActivityTimestamp time.Time `db:"last_activity_timestamp"`
}

// UserSyncStatus is the per-user pointer record maintained by the sync
// machinery. SyncSessionID may be unset if the session was cleared.
type UserSyncStatus struct {
	UserID        string         `db:"user_id"`
	SyncSessionID sql.NullString `db:"sync_session_id"`
	Queued        bool           `db:"queued"`
}

// DeviceStatusSignal is a peer-reported health signal keyed by the
// reporting device's instance id.
type DeviceStatusSignal struct {
	InstanceID      string    `db:"instance_id"`
	UserID          string    `db:"user_id"`
	StatusCode      string    `db:"status_code"`
	StatusSentiment Sentiment `db:"status_sentiment"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ContentDownloadRequest is an outstanding request to fetch a piece of
// content for a user.
type ContentDownloadRequest struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ContentID   string    `db:"content_id"`
	Reason      string    `db:"reason"`
	RequestedAt time.Time `db:"requested_at"`
}

// ContentRemovalRequest cancels a prior download request with the same
// content id.
type ContentRemovalRequest struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ContentID   string    `db:"content_id"`
	Reason      string    `db:"reason"`
	RequestedAt time.Time `db:"requested_at"`
}
