package store

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"hivemind/internal/logging"
)

// InsertPost creates a post with zero engagement and returns the stored
// record.
func (s *LocalStore) InsertPost(agentID, platform, content string) (Post, error) {
	p := Post{
		ID:       uuid.NewString(),
		AgentID:  agentID,
		Platform: platform,
		Content:  content,
	}
	ts := now()
	_, err := s.db.Exec(
		`INSERT INTO posts (id, agent_id, platform, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.AgentID, p.Platform, p.Content, ts,
	)
	if err != nil {
		return Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	p.CreatedAt = parseTime(ts)
	return p, nil
}

// Post returns one post row.
func (s *LocalStore) Post(id string) (Post, error) {
	var p Post
	var ts string
	err := s.db.QueryRow(
		`SELECT id, agent_id, platform, content, likes, shares, comments, engagement_score, created_at
		 FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.AgentID, &p.Platform, &p.Content, &p.Likes, &p.Shares, &p.Comments, &p.EngagementScore, &ts)
	if err != nil {
		return Post{}, fmt.Errorf("failed to load post %s: %w", id, err)
	}
	p.CreatedAt = parseTime(ts)
	return p, nil
}

// RecentPosts returns the newest posts, newest first.
func (s *LocalStore) RecentPosts(limit int) ([]Post, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, platform, content, likes, shares, comments, engagement_score, created_at
		 FROM posts ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		var ts string
		if err := rows.Scan(&p.ID, &p.AgentID, &p.Platform, &p.Content, &p.Likes, &p.Shares, &p.Comments, &p.EngagementScore, &ts); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(ts)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SimulateEngagement assigns random engagement counts to a freshly created
// post. Idempotent per post: the guarded UPDATE only fires while all
// counters are still zero, so a double trigger cannot double-apply.
func (s *LocalStore) SimulateEngagement(postID string) error {
	likes := rand.Intn(501)
	shares := 0
	comments := 0
	if likes > 0 {
		shares = rand.Intn(likes/2 + 1)
		comments = rand.Intn(likes/5 + 1)
	}
	score := likes + 2*shares + 3*comments

	res, err := s.db.Exec(
		`UPDATE posts SET likes = ?, shares = ?, comments = ?, engagement_score = ?
		 WHERE id = ? AND likes = 0 AND shares = 0 AND comments = 0`,
		likes, shares, comments, score, postID,
	)
	if err != nil {
		return fmt.Errorf("failed to simulate engagement for %s: %w", postID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		logging.Get(logging.CategoryEngagement).Debug("post %s already engaged, skipping", postID)
	} else {
		logging.Get(logging.CategoryEngagement).Info("post %s: %d likes, %d shares, %d comments", postID, likes, shares, comments)
	}
	return nil
}
