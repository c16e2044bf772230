package status

import (
	"sync-status-service/internal/store"
)

// An overrideRule inspects the snapshot and either replaces the status
// computed so far or passes it through. Rules are pure and applied in
// a fixed sequence; later rules take precedence.
type overrideRule struct {
	name  string
	apply func(current Status, snap *snapshot) Status
}

var overrideRules = []overrideRule{
	{name: "queued_fallback", apply: queuedFallback},
	{name: "device_status", apply: deviceStatusOverride},
}

// knownDeviceStatuses maps recognized device-reported status codes to
// the status they force. Codes not listed here degrade to the
// reporter's sentiment.
var knownDeviceStatuses = map[string]Status{
	"InsufficientStorage": InsufficientStorage,
}

// resolve produces the status for one snapshot.
func resolve(snap *snapshot) Status {
	if snap.session == nil {
		// No sync session to inspect: only the queued flag speaks.
		if snap.userStatus.Queued {
			return Queued
		}
		return NotRecentlySynced
	}

	current := transferBaseStatus(snap)
	for _, rule := range overrideRules {
		current = rule.apply(current, snap)
	}
	return current
}

// transferBaseStatus derives the base status from the most recently
// active transfer session, falling back to a recency check against
// the sync session when no transfer dominates.
func transferBaseStatus(snap *snapshot) Status {
	latest := latestTransfer(snap.transfers)

	if latest != nil {
		if latest.Active && latest.TransferStageStatus == store.TransferStageStarted {
			return Syncing
		}
		// Only an errored session that nothing newer supersedes counts.
		if latest.TransferStageStatus == store.TransferStageErrored {
			return UnableToSync
		}
	}

	reference := snap.session.LastActivityTimestamp
	if latest != nil && latest.LastActivityTimestamp.After(reference) {
		reference = latest.LastActivityTimestamp
	}

	if snap.now.Sub(reference) <= snap.threshold {
		return RecentlySynced
	}
	return NotRecentlySynced
}

// queuedFallback promotes a stale result to QUEUED when a sync is
// wanted but has not run. It never displaces an active, errored or
// recent result.
func queuedFallback(current Status, snap *snapshot) Status {
	if current == NotRecentlySynced && snap.userStatus.Queued {
		return Queued
	}
	return current
}

// deviceStatusOverride applies the peer-reported device status. A
// recognized code wins outright; an unrecognized code only matters
// when the peer considers it negative.
func deviceStatusOverride(current Status, snap *snapshot) Status {
	sig := snap.deviceStatus
	if sig == nil {
		return current
	}
	if forced, ok := knownDeviceStatuses[sig.StatusCode]; ok {
		return forced
	}
	if sig.StatusSentiment == store.SentimentNegative {
		return UnableToSync
	}
	return current
}

// latestTransfer returns the transfer session with the newest
// last-activity timestamp, or nil if there are none.
func latestTransfer(transfers []store.TransferSession) *store.TransferSession {
	var latest *store.TransferSession
	for i := range transfers {
		ts := &transfers[i]
		if latest == nil || ts.LastActivityTimestamp.After(latest.LastActivityTimestamp) {
			latest = ts
		}
	}
	return latest
}
