package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// InsertActivity appends one activity-log entry. Metadata is stored as a
// JSON blob; nil means an empty object.
func (s *LocalStore) InsertActivity(agentID, actionType, description string, metadata map[string]any) (ActivityEntry, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	blob, err := json.Marshal(metadata)
	if err != nil {
		return ActivityEntry{}, fmt.Errorf("failed to encode metadata: %w", err)
	}

	e := ActivityEntry{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		ActionType:  actionType,
		Description: description,
		Metadata:    metadata,
	}
	ts := now()
	_, err = s.db.Exec(
		`INSERT INTO activity_log (id, agent_id, action_type, description, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.AgentID, e.ActionType, e.Description, string(blob), ts,
	)
	if err != nil {
		return ActivityEntry{}, fmt.Errorf("failed to insert activity: %w", err)
	}
	e.CreatedAt = parseTime(ts)
	return e, nil
}

// RecentActivity returns the newest activity entries, newest first.
func (s *LocalStore) RecentActivity(limit int) ([]ActivityEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, action_type, description, metadata, created_at
		 FROM activity_log ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var ts, blob string
		if err := rows.Scan(&e.ID, &e.AgentID, &e.ActionType, &e.Description, &blob, &ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &e.Metadata); err != nil {
			e.Metadata = map[string]any{}
		}
		e.CreatedAt = parseTime(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ActivityCount reports the number of activity-log rows.
func (s *LocalStore) ActivityCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM activity_log`).Scan(&n)
	return n, err
}

// MessageCount reports the number of message rows.
func (s *LocalStore) MessageCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

// PostCount reports the number of post rows.
func (s *LocalStore) PostCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
