package internal

import "encoding/json"

// Role is the speaker of a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// TurnKind is the closed discriminant over turn shapes
type TurnKind string

const (
	KindUser          TurnKind = "user"
	KindResponse      TurnKind = "response"
	KindTool          TurnKind = "tool"
	KindLog           TurnKind = "log"
	KindReflected     TurnKind = "reflected"
	KindCommandOutput TurnKind = "command_output"
	KindLoading       TurnKind = "loading"
)

// LogLevel is the severity carried by log turns
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// Turn is one message or event in the transcript.
//
// Content only grows while IsComplete is false. GroupID is fixed when the
// turn is created; an empty GroupID means the turn is ungrouped.
type Turn struct {
	ID         string       `json:"id" yaml:"id"`
	Kind       TurnKind     `json:"kind" yaml:"kind"`
	Role       Role         `json:"role,omitempty" yaml:"role,omitempty"`
	Content    string       `json:"content" yaml:"content"`
	IsComplete bool         `json:"isComplete" yaml:"is_complete"`
	GroupID    string       `json:"groupId,omitempty" yaml:"group_id,omitempty"`
	Group      *Group       `json:"group,omitempty" yaml:"group,omitempty"`
	Usage      *UsageReport `json:"usage,omitempty" yaml:"usage,omitempty"`
	Mode       string       `json:"mode,omitempty" yaml:"mode,omitempty"`
	PromptID   string       `json:"promptId,omitempty" yaml:"prompt_id,omitempty"`

	// Kind specific fields
	Tool    *ToolCall `json:"tool,omitempty" yaml:"tool,omitempty"`
	Level   LogLevel  `json:"level,omitempty" yaml:"level,omitempty"`
	Command string    `json:"command,omitempty" yaml:"command,omitempty"`

	// Extra holds record fields this package does not understand. It is
	// carried through untouched so exports can round-trip them.
	Extra map[string]json.RawMessage `json:"extra,omitempty" yaml:"-"`
}

// ToolCall describes the invocation carried by a tool turn
type ToolCall struct {
	Server string         `json:"server" yaml:"server"`
	Name   string         `json:"name" yaml:"name"`
	Args   map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// Executing reports whether the tool has not produced a result yet
func (t Turn) Executing() bool {
	return t.Kind == KindTool && t.Content == ""
}

// Group is the identity and display data of a multi-step exchange
type Group struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Finished bool   `json:"finished" yaml:"finished"`
}

// DisplayName returns the group name, or a generic label when unnamed
func (g Group) DisplayName() string {
	if g.Name == "" {
		return "Group"
	}
	return g.Name
}

// GroupedTurn collects the turns sharing one group id
type GroupedTurn struct {
	Group    Group  `json:"group" yaml:"group"`
	Children []Turn `json:"children" yaml:"children"`
}

// Usage aggregates the usage reports of the group's children
func (g *GroupedTurn) Usage() *UsageReport {
	return AggregateUsage(g.Children)
}

// Entry is one element of a grouped transcript: either a Turn or a *GroupedTurn
type Entry interface {
	isEntry()
}

func (Turn) isEntry()         {}
func (*GroupedTurn) isEntry() {}

// UsageReport is the token and cost metadata attached to an agent turn
type UsageReport struct {
	Model            string  `json:"model,omitempty" yaml:"model,omitempty"`
	SentTokens       int     `json:"sentTokens" yaml:"sent_tokens"`
	ReceivedTokens   int     `json:"receivedTokens" yaml:"received_tokens"`
	MessageCost      float64 `json:"messageCost" yaml:"message_cost"`
	CacheWriteTokens *int    `json:"cacheWriteTokens,omitempty" yaml:"cache_write_tokens,omitempty"`
	CacheReadTokens  *int    `json:"cacheReadTokens,omitempty" yaml:"cache_read_tokens,omitempty"`
}

// Flatten expands grouped entries back into the flat turn list they were built from
func Flatten(entries []Entry) []Turn {
	var turns []Turn
	for _, e := range entries {
		switch v := e.(type) {
		case Turn:
			turns = append(turns, v)
		case *GroupedTurn:
			turns = append(turns, v.Children...)
		}
	}
	return turns
}
