package status

import (
	"context"

	"sync-status-service/internal/store"
)

// fakeSource is an in-memory SignalSource for resolver tests. Any of
// the fail* errors short-circuits the corresponding lookup.
type fakeSource struct {
	statuses  map[string]*store.UserSyncStatus
	sessions  map[string]*store.SyncSession
	transfers map[string][]store.TransferSession
	devices   map[string]*store.DeviceStatusSignal
	downloads map[string][]store.ContentDownloadRequest
	removals  map[string][]store.ContentRemovalRequest

	failStatuses  error
	failSessions  error
	failTransfers error
	failDevices   error
	failDownloads error
	failRemovals  error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		statuses:  make(map[string]*store.UserSyncStatus),
		sessions:  make(map[string]*store.SyncSession),
		transfers: make(map[string][]store.TransferSession),
		devices:   make(map[string]*store.DeviceStatusSignal),
		downloads: make(map[string][]store.ContentDownloadRequest),
		removals:  make(map[string][]store.ContentRemovalRequest),
	}
}

func (f *fakeSource) SyncStatusFor(ctx context.Context, userID string) (*store.UserSyncStatus, error) {
	if f.failStatuses != nil {
		return nil, f.failStatuses
	}
	return f.statuses[userID], nil
}

func (f *fakeSource) SyncSessionByID(ctx context.Context, id string) (*store.SyncSession, error) {
	if f.failSessions != nil {
		return nil, f.failSessions
	}
	return f.sessions[id], nil
}

func (f *fakeSource) TransferSessionsFor(ctx context.Context, syncSessionID string) ([]store.TransferSession, error) {
	if f.failTransfers != nil {
		return nil, f.failTransfers
	}
	return f.transfers[syncSessionID], nil
}

func (f *fakeSource) LatestDeviceStatusFor(ctx context.Context, instanceID string) (*store.DeviceStatusSignal, error) {
	if f.failDevices != nil {
		return nil, f.failDevices
	}
	return f.devices[instanceID], nil
}

func (f *fakeSource) DownloadRequestsFor(ctx context.Context, userID string) ([]store.ContentDownloadRequest, error) {
	if f.failDownloads != nil {
		return nil, f.failDownloads
	}
	return f.downloads[userID], nil
}

func (f *fakeSource) RemovalRequestsFor(ctx context.Context, userID string) ([]store.ContentRemovalRequest, error) {
	if f.failRemovals != nil {
		return nil, f.failRemovals
	}
	return f.removals[userID], nil
}

func (f *fakeSource) SyncStatusesFor(ctx context.Context, userIDs []string) (map[string]*store.UserSyncStatus, error) {
	if f.failStatuses != nil {
		return nil, f.failStatuses
	}
	out := make(map[string]*store.UserSyncStatus)
	for _, id := range userIDs {
		if us, ok := f.statuses[id]; ok {
			out[id] = us
		}
	}
	return out, nil
}

func (f *fakeSource) SyncSessionsByID(ctx context.Context, ids []string) (map[string]*store.SyncSession, error) {
	if f.failSessions != nil {
		return nil, f.failSessions
	}
	out := make(map[string]*store.SyncSession)
	for _, id := range ids {
		if ss, ok := f.sessions[id]; ok {
			out[id] = ss
		}
	}
	return out, nil
}

func (f *fakeSource) TransferSessionsForSessions(ctx context.Context, syncSessionIDs []string) (map[string][]store.TransferSession, error) {
	if f.failTransfers != nil {
		return nil, f.failTransfers
	}
	out := make(map[string][]store.TransferSession)
	for _, id := range syncSessionIDs {
		if ts, ok := f.transfers[id]; ok {
			out[id] = ts
		}
	}
	return out, nil
}

func (f *fakeSource) LatestDeviceStatusesFor(ctx context.Context, instanceIDs []string) (map[string]*store.DeviceStatusSignal, error) {
	if f.failDevices != nil {
		return nil, f.failDevices
	}
	out := make(map[string]*store.DeviceStatusSignal)
	for _, id := range instanceIDs {
		if ds, ok := f.devices[id]; ok {
			out[id] = ds
		}
	}
	return out, nil
}

func (f *fakeSource) DownloadRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]store.ContentDownloadRequest, error) {
	if f.failDownloads != nil {
		return nil, f.failDownloads
	}
	out := make(map[string][]store.ContentDownloadRequest)
	for _, id := range userIDs {
		if dl, ok := f.downloads[id]; ok {
			out[id] = dl
		}
	}
	return out, nil
}

func (f *fakeSource) RemovalRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]store.ContentRemovalRequest, error) {
	if f.failRemovals != nil {
		return nil, f.failRemovals
	}
	out := make(map[string][]store.ContentRemovalRequest)
	for _, id := range userIDs {
		if rm, ok := f.removals[id]; ok {
			out[id] = rm
		}
	}
	return out, nil
}
