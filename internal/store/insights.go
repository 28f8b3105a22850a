package store

import (
	"fmt"

	"github.com/google/uuid"
)

// InsertInsight appends a shared-memory note. Importance is clamped to the
// 1..10 band the dashboard expects.
func (s *LocalStore) InsertInsight(category, content, agentID string, importance int) (Insight, error) {
	if importance < 1 {
		importance = 1
	}
	if importance > 10 {
		importance = 10
	}
	in := Insight{
		ID:         uuid.NewString(),
		Category:   category,
		Content:    content,
		AgentID:    agentID,
		Importance: importance,
	}
	ts := now()
	_, err := s.db.Exec(
		`INSERT INTO shared_memory (id, category, content, agent_id, importance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Category, in.Content, in.AgentID, in.Importance, ts,
	)
	if err != nil {
		return Insight{}, fmt.Errorf("failed to insert insight: %w", err)
	}
	in.CreatedAt = parseTime(ts)
	return in, nil
}

// RecentInsights returns the newest shared-memory notes, newest first.
func (s *LocalStore) RecentInsights(limit int) ([]Insight, error) {
	rows, err := s.db.Query(
		`SELECT id, category, content, agent_id, importance, created_at
		 FROM shared_memory ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load insights: %w", err)
	}
	defer rows.Close()

	var out []Insight
	for rows.Next() {
		var in Insight
		var ts string
		if err := rows.Scan(&in.ID, &in.Category, &in.Content, &in.AgentID, &in.Importance, &ts); err != nil {
			return nil, err
		}
		in.CreatedAt = parseTime(ts)
		out = append(out, in)
	}
	return out, rows.Err()
}

// InsightCount reports the number of shared-memory rows. Test and status
// helper.
func (s *LocalStore) InsightCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM shared_memory`).Scan(&n)
	return n, err
}
