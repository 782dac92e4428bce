package internal

import "time"

// SessionInfo describes one stored session
type SessionInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	TurnCount int       `json:"turnCount" yaml:"turn_count"`
}

// DisplayName returns the session name, or its id when unnamed
func (s SessionInfo) DisplayName() string {
	if s.Name == "" {
		return s.ID
	}
	return s.Name
}

// Transcript is the grouped, usage-annotated view of one session
type Transcript struct {
	SessionID  string       `json:"sessionId" yaml:"session_id"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	Entries    []Entry      `json:"-" yaml:"-"`
	Turns      []Turn       `json:"turns" yaml:"turns"`
	TurnCount  int          `json:"turnCount" yaml:"turn_count"`
	GroupCount int          `json:"groupCount" yaml:"group_count"`
	Usage      *UsageReport `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// Groups returns the grouped entries in output order
func (t *Transcript) Groups() []*GroupedTurn {
	var groups []*GroupedTurn
	for _, e := range t.Entries {
		if g, ok := e.(*GroupedTurn); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// GroupUsage returns the aggregated usage of one group, or nil when the
// group is unknown or carries no usage
func (t *Transcript) GroupUsage(groupID string) *UsageReport {
	for _, g := range t.Groups() {
		if g.Group.ID == groupID {
			return g.Usage()
		}
	}
	return nil
}
