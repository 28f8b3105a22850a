package store

import "time"

// Experiment is the singleton run/pause record with aggregate counters.
type Experiment struct {
	ID            int       `json:"id"`
	IsLive        bool      `json:"is_live"`
	Day           int       `json:"day"`
	StartedAt     time.Time `json:"started_at,omitzero"`
	TotalMessages int       `json:"total_messages"`
	TotalPosts    int       `json:"total_posts"`
	TotalRevenue  float64   `json:"total_revenue"`
	CurrentGoal   string    `json:"current_goal,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Agent is one persona's persisted row with lifetime counters.
type Agent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Role          string `json:"role"`
	TotalMessages int    `json:"total_messages"`
	TotalPosts    int    `json:"total_posts"`
}

// Message is one channel message. Append-only.
type Message struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	Channel   string    `json:"channel"`
	Content   string    `json:"content"`
	Type      string    `json:"message_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is one simulated social-media post. Engagement counters start at
// zero and are set exactly once by the engagement simulation.
type Post struct {
	ID              string    `json:"id"`
	AgentID         string    `json:"agent_id"`
	Platform        string    `json:"platform"`
	Content         string    `json:"content"`
	Likes           int       `json:"likes"`
	Shares          int       `json:"shares"`
	Comments        int       `json:"comments"`
	EngagementScore int       `json:"engagement_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// Insight is one shared-memory note visible to every persona.
type Insight struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	AgentID    string    `json:"agent_id"`
	Importance int       `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityEntry is one observability record, one per executed turn.
type ActivityEntry struct {
	ID          string         `json:"id"`
	AgentID     string         `json:"agent_id"`
	ActionType  string         `json:"action_type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}
