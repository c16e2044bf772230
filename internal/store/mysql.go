package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"sync-status-service/internal/config"
	"sync-status-service/internal/logger"
)

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(cfg config.DatabaseConfig) (*MySQLStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// Retry loop for Ping
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		logger.Log.Info("Waiting for signal DB...", zap.Error(err), zap.Int("attempt", i+1))
		time.Sleep(1 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to ping mysql after retries: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) SyncStatusFor(ctx context.Context, userID string) (*UserSyncStatus, error) {
	query := `SELECT user_id, sync_session_id, queued FROM user_sync_statuses WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var us UserSyncStatus
	err := row.Scan(&us.UserID, &us.SyncSessionID, &us.Queued)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &us, nil
}

func (s *MySQLStore) SyncSessionByID(ctx context.Context, id string) (*SyncSession, error) {
	query := `SELECT id, start_timestamp, last_activity_timestamp, active, queued, is_server, client_instance_id, server_instance_id
			  FROM sync_sessions WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var ss SyncSession
	err := row.Scan(
		&ss.ID,
		&ss.StartTimestamp,
		&ss.LastActivityTimestamp,
		&ss.Active,
		&ss.Queued,
		&ss.IsServer,
		&ss.ClientInstanceID,
		&ss.ServerInstanceID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ss, nil
}

func (s *MySQLStore) TransferSessionsFor(ctx context.Context, syncSessionID string) ([]TransferSession, error) {
	query := `SELECT id, sync_session_id, transfer_stage_status, active, push, last_activity_timestamp
			  FROM transfer_sessions WHERE sync_session_id = ?
			  ORDER BY last_activity_timestamp DESC, id`

	rows, err := s.db.QueryContext(ctx, query, syncSessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransferSessions(rows)
}

func (s *MySQLStore) LatestDeviceStatusFor(ctx context.Context, instanceID string) (*DeviceStatusSignal, error) {
	query := `SELECT instance_id, user_id, status_code, status_sentiment, updated_at
			  FROM device_statuses WHERE instance_id = ?
			  ORDER BY updated_at DESC LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, instanceID)

	var ds DeviceStatusSignal
	err := row.Scan(&ds.InstanceID, &ds.UserID, &ds.StatusCode, &ds.StatusSentiment, &ds.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

func (s *MySQLStore) DownloadRequestsFor(ctx context.Context, userID string) ([]ContentDownloadRequest, error) {
	query := `SELECT id, user_id, content_id, reason, requested_at
			  FROM content_download_requests WHERE user_id = ?`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []ContentDownloadRequest
	for rows.Next() {
		var r ContentDownloadRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.ContentID, &r.Reason, &r.RequestedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

func (s *MySQLStore) RemovalRequestsFor(ctx context.Context, userID string) ([]ContentRemovalRequest, error) {
	query := `SELECT id, user_id, content_id, reason, requested_at
			  FROM content_removal_requests WHERE user_id = ?`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []ContentRemovalRequest
	for rows.Next() {
		var r ContentRemovalRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.ContentID, &r.Reason, &r.RequestedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

func (s *MySQLStore) SyncStatusesFor(ctx context.Context, userIDs []string) (map[string]*UserSyncStatus, error) {
	result := make(map[string]*UserSyncStatus, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT user_id, sync_session_id, queued FROM user_sync_statuses WHERE user_id IN (%s)`,
		placeholders(len(userIDs)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(userIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var us UserSyncStatus
		if err := rows.Scan(&us.UserID, &us.SyncSessionID, &us.Queued); err != nil {
			return nil, err
		}
		result[us.UserID] = &us
	}

	return result, rows.Err()
}

func (s *MySQLStore) SyncSessionsByID(ctx context.Context, ids []string) (map[string]*SyncSession, error) {
	result := make(map[string]*SyncSession, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT id, start_timestamp, last_activity_timestamp, active, queued, is_server, client_instance_id, server_instance_id
			  FROM sync_sessions WHERE id IN (%s)`, placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss SyncSession
		err := rows.Scan(
			&ss.ID,
			&ss.StartTimestamp,
			&ss.LastActivityTimestamp,
			&ss.Active,
			&ss.Queued,
			&ss.IsServer,
			&ss.ClientInstanceID,
			&ss.ServerInstanceID,
		)
		if err != nil {
			return nil, err
		}
		result[ss.ID] = &ss
	}

	return result, rows.Err()
}

func (s *MySQLStore) TransferSessionsForSessions(ctx context.Context, syncSessionIDs []string) (map[string][]TransferSession, error) {
	result := make(map[string][]TransferSession, len(syncSessionIDs))
	if len(syncSessionIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT id, sync_session_id, transfer_stage_status, active, push, last_activity_timestamp
			  FROM transfer_sessions WHERE sync_session_id IN (%s)
			  ORDER BY last_activity_timestamp DESC, id`, placeholders(len(syncSessionIDs)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(syncSessionIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := scanTransferSessions(rows)
	if err != nil {
		return nil, err
	}
	for _, ts := range sessions {
		result[ts.SyncSessionID] = append(result[ts.SyncSessionID], ts)
	}

	return result, nil
}

func (s *MySQLStore) LatestDeviceStatusesFor(ctx context.Context, instanceIDs []string) (map[string]*DeviceStatusSignal, error) {
	result := make(map[string]*DeviceStatusSignal, len(instanceIDs))
	if len(instanceIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT instance_id, user_id, status_code, status_sentiment, updated_at
			  FROM device_statuses WHERE instance_id IN (%s)
			  ORDER BY updated_at`, placeholders(len(instanceIDs)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(instanceIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Ascending scan order means the newest signal per instance wins.
	for rows.Next() {
		var ds DeviceStatusSignal
		if err := rows.Scan(&ds.InstanceID, &ds.UserID, &ds.StatusCode, &ds.StatusSentiment, &ds.UpdatedAt); err != nil {
			return nil, err
		}
		sig := ds
		result[ds.InstanceID] = &sig
	}

	return result, rows.Err()
}

func (s *MySQLStore) DownloadRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]ContentDownloadRequest, error) {
	result := make(map[string][]ContentDownloadRequest, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT id, user_id, content_id, reason, requested_at
			  FROM content_download_requests WHERE user_id IN (%s)`, placeholders(len(userIDs)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(userIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r ContentDownloadRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.ContentID, &r.Reason, &r.RequestedAt); err != nil {
			return nil, err
		}
		result[r.UserID] = append(result[r.UserID], r)
	}

	return result, rows.Err()
}

func (s *MySQLStore) RemovalRequestsForUsers(ctx context.Context, userIDs []string) (map[string][]ContentRemovalRequest, error) {
	result := make(map[string][]ContentRemovalRequest, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT id, user_id, content_id, reason, requested_at
			  FROM content_removal_requests WHERE user_id IN (%s)`, placeholders(len(userIDs)))

	rows, err := s.db.QueryContext(ctx, query, toArgs(userIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r ContentRemovalRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.ContentID, &r.Reason, &r.RequestedAt); err != nil {
			return nil, err
		}
		result[r.UserID] = append(result[r.UserID], r)
	}

	return result, rows.Err()
}

func (s *MySQLStore) DeactivateTransferSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE transfer_sessions SET active = FALSE WHERE active = TRUE AND last_activity_timestamp < ?`

	res, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func scanTransferSessions(rows *sql.Rows) ([]TransferSession, error) {
	var sessions []TransferSession
	for rows.Next() {
		var ts TransferSession
		err := rows.Scan(
			&ts.ID,
			&ts.SyncSessionID,
			&ts.TransferStageStatus,
			&ts.Active,
			&ts.Push,
			&ts.LastActivityTimestamp,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ts)
	}
	return sessions, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
