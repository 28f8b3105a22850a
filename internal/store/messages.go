package store

import (
	"fmt"

	"github.com/google/uuid"
)

// InsertMessage appends a channel message and returns the stored record.
func (s *LocalStore) InsertMessage(agentID, channel, content, messageType string) (Message, error) {
	m := Message{
		ID:      uuid.NewString(),
		AgentID: agentID,
		Channel: channel,
		Content: content,
		Type:    messageType,
	}
	ts := now()
	_, err := s.db.Exec(
		`INSERT INTO messages (id, agent_id, channel, content, message_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.AgentID, m.Channel, m.Content, m.Type, ts,
	)
	if err != nil {
		return Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	m.CreatedAt = parseTime(ts)
	return m, nil
}

// RecentMessages returns the newest messages across all channels, newest
// first. Insertion order (rowid) breaks timestamp ties, which matters for
// sub-millisecond bursts.
func (s *LocalStore) RecentMessages(limit int) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, channel, content, message_type, created_at
		 FROM messages ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var ts string
		if err := rows.Scan(&m.ID, &m.AgentID, &m.Channel, &m.Content, &m.Type, &ts); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(ts)
		out = append(out, m)
	}
	return out, rows.Err()
}
