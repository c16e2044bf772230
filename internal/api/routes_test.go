package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-status-service/internal/status"
	"sync-status-service/internal/store"
)

// stubSource serves canned signals for two users: "synced" (recently
// synced) and "queued" (no session, queued flag set).
type stubSource struct{}

func (stubSource) session(userID string) *store.UserSyncStatus {
	switch userID {
	case "synced":
		return &store.UserSyncStatus{
			UserID:        "synced",
			SyncSessionID: sql.NullString{String: "sess1", Valid: true},
		}
	case "queued":
		return &store.UserSyncStatus{UserID: "queued", Queued: true}
	}
	return nil
}

func (s stubSource) SyncStatusFor(ctx context.Context, userID string) (*store.UserSyncStatus, error) {
	return s.session(userID), nil
}

func (stubSource) SyncSessionByID(ctx context.Context, id string) (*store.SyncSession, error) {
	if id != "sess1" {
		return nil, nil
	}
	return &store.SyncSession{ID: "sess1", LastActivityTimestamp: time.Now()}, nil
}

func (stubSource) TransferSessionsFor(ctx context.Context, syncSessionID string) ([]store.TransferSession, error) {
	return nil, nil
}

func (stubSource) LatestDeviceStatusFor(ctx context.Context, instanceID string) (*store.DeviceStatusSignal, error) {
	return nil, nil
}

func (stubSource) DownloadRequestsFor(ctx context.Context, userID string) ([]store.ContentDownloadRequest, error) {
	return nil, nil
}

func (stubSource) RemovalRequestsFor(ctx context.Context, userID string) ([]store.ContentRemovalRequest, error) {
	return nil, nil
}

func (s stubSource) SyncStatusesFor(ctx context.Context, userIDs []string) (map[string]*store.UserSyncStatus, error) {
	out := make(map[string]*store.UserSyncStatus)
	for _, id := range userIDs {
		if us := s.session(id); us != nil {
			out[id] = us
		}
	}
	return out, nil
}

func (s stubSource) SyncSessionsByID(ctx context.Context, ids []string) (map[string]*store.SyncSession, error) {
	out := make(map[string]*store.SyncSession)
	for _, id := range ids {
		if ss, _ := s.SyncSessionByID(ctx, id); ss != nil {
			out[id] = ss
		}
	}
	return out, nil
}

func (stubSource) TransferSessionsForSessions(ctx context.Context, syncSessionIDs []string) (map[string][]store.TransferSession, error) {
	return map[string][]store.TransferSession{}, nil
}

func (stubSource) LatestDeviceStatusesFor(ctx context.Context, instanceIDs []string) (map[string]*store.DeviceStatusSignal, error) {
	return map[string]*store.DeviceStatusSignal{}, nil
}

func (stubSource) DownloadRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]store.ContentDownloadRequest, error) {
	return map[string][]store.ContentDownloadRequest{}, nil
}

func (stubSource) RemovalRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]store.ContentRemovalRequest, error) {
	return map[string][]store.ContentRemovalRequest{}, nil
}

func newTestRouter() http.Handler {
	aggregator := status.NewAggregator(stubSource{}, 15*time.Minute, 2)
	return NewHandler(aggregator).Routes()
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSyncStatus(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sync-status/synced", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "synced", body["user_id"])
	assert.Equal(t, string(status.RecentlySynced), body["status"])
	assert.Equal(t, false, body["has_downloads"])
	assert.Nil(t, body["last_download_removed"])
	assert.Equal(t, false, body["sync_downloads_in_progress"])
}

func TestGetSyncStatus_NeverSynced(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sync-status/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSyncStatuses(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sync-status?users=queued,ghost,synced", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "queued", body[0]["user_id"])
	assert.Equal(t, string(status.Queued), body[0]["status"])
	assert.Equal(t, "synced", body[1]["user_id"])
}

func TestListSyncStatuses_MissingParam(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sync-status", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
