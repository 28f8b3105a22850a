package store

import (
	"database/sql"
	"fmt"
)

// Experiment returns the singleton experiment row.
func (s *LocalStore) Experiment() (Experiment, error) {
	row := s.db.QueryRow(
		`SELECT id, is_live, day, started_at, total_messages, total_posts,
		        total_revenue, current_goal, updated_at
		 FROM experiment WHERE id = 1`,
	)

	var (
		e         Experiment
		isLive    int
		startedAt sql.NullString
		goal      sql.NullString
		updatedAt string
	)
	err := row.Scan(&e.ID, &isLive, &e.Day, &startedAt, &e.TotalMessages,
		&e.TotalPosts, &e.TotalRevenue, &goal, &updatedAt)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to load experiment: %w", err)
	}

	e.IsLive = isLive != 0
	if startedAt.Valid {
		e.StartedAt = parseTime(startedAt.String)
	}
	if goal.Valid {
		e.CurrentGoal = goal.String
	}
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// MarkStarted flips the experiment live: day 1, fresh start timestamp.
func (s *LocalStore) MarkStarted() error {
	ts := now()
	_, err := s.db.Exec(
		`UPDATE experiment SET is_live = 1, day = 1, started_at = ?, updated_at = ? WHERE id = 1`,
		ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to start experiment: %w", err)
	}
	return nil
}

// MarkStopped flips the experiment off. Everything else is left as-is so a
// restart resumes the same goal and counters.
func (s *LocalStore) MarkStopped() error {
	_, err := s.db.Exec(
		`UPDATE experiment SET is_live = 0, updated_at = ? WHERE id = 1`, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to stop experiment: %w", err)
	}
	return nil
}

// SetGoal records the shared campaign goal.
func (s *LocalStore) SetGoal(goal string) error {
	_, err := s.db.Exec(
		`UPDATE experiment SET current_goal = ?, updated_at = ? WHERE id = 1`,
		goal, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}
	return nil
}
