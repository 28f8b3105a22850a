package store

import "fmt"

// SeedAgents inserts agent rows that are not already present. Existing rows
// keep their counters.
func (s *LocalStore) SeedAgents(agents []Agent) error {
	for _, a := range agents {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO agents (id, name, color, role) VALUES (?, ?, ?, ?)`,
			a.ID, a.Name, a.Color, a.Role,
		)
		if err != nil {
			return fmt.Errorf("failed to seed agent %s: %w", a.ID, err)
		}
	}
	return nil
}

// Agent returns one agent row.
func (s *LocalStore) Agent(id string) (Agent, error) {
	var a Agent
	err := s.db.QueryRow(
		`SELECT id, name, color, role, total_messages, total_posts FROM agents WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Color, &a.Role, &a.TotalMessages, &a.TotalPosts)
	if err != nil {
		return Agent{}, fmt.Errorf("failed to load agent %s: %w", id, err)
	}
	return a, nil
}

// Agents returns every agent row in id order.
func (s *LocalStore) Agents() ([]Agent, error) {
	rows, err := s.db.Query(
		`SELECT id, name, color, role, total_messages, total_posts FROM agents ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Color, &a.Role, &a.TotalMessages, &a.TotalPosts); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// IncrementAgentMessages bumps the agent's lifetime message counter and the
// experiment aggregate. Single UPDATE statements: the store is the only
// place arithmetic on counters happens, so concurrent turns cannot
// read-modify-write stale values through the engine.
func (s *LocalStore) IncrementAgentMessages(agentID string) error {
	if _, err := s.db.Exec(
		`UPDATE agents SET total_messages = total_messages + 1 WHERE id = ?`, agentID,
	); err != nil {
		return fmt.Errorf("failed to increment messages for %s: %w", agentID, err)
	}
	_, err := s.db.Exec(
		`UPDATE experiment SET total_messages = total_messages + 1, updated_at = ? WHERE id = 1`, now(),
	)
	return err
}

// IncrementAgentPosts bumps the agent's lifetime post counter and the
// experiment aggregate.
func (s *LocalStore) IncrementAgentPosts(agentID string) error {
	if _, err := s.db.Exec(
		`UPDATE agents SET total_posts = total_posts + 1 WHERE id = ?`, agentID,
	); err != nil {
		return fmt.Errorf("failed to increment posts for %s: %w", agentID, err)
	}
	_, err := s.db.Exec(
		`UPDATE experiment SET total_posts = total_posts + 1, updated_at = ? WHERE id = 1`, now(),
	)
	return err
}
