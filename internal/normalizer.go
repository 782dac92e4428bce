package internal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// knownFields are the record keys mapped onto Turn fields. Anything else
// lands in Turn.Extra.
var knownFields = map[string]bool{
	"id": true, "type": true, "role": true, "content": true, "isComplete": true,
	"promptContext": true, "usageReport": true, "model": true, "mode": true,
	"serverName": true, "toolName": true, "args": true, "level": true, "command": true,
	"event": true,
}

// Normalizer converts raw, loosely typed agent records into Turns
type Normalizer struct {
	// DefaultComplete is used when a record has no isComplete field
	DefaultComplete bool
}

// NewNormalizer creates a Normalizer for stored records, which are complete
// unless they say otherwise
func NewNormalizer() *Normalizer {
	return &Normalizer{DefaultComplete: true}
}

// NormalizeRecord converts one JSON record into a Turn. Only input that is not
// a JSON object, or a "group" record, is rejected; missing or oddly typed
// fields fall back to defaults.
func (n *Normalizer) NormalizeRecord(raw []byte) (Turn, error) {
	if !gjson.ValidBytes(raw) {
		return Turn{}, ErrInvalidRecord
	}
	rec := gjson.ParseBytes(raw)
	if !rec.IsObject() {
		return Turn{}, ErrInvalidRecord
	}

	recordType := strings.ToLower(stringField(rec, "type"))
	if recordType == "group" {
		return Turn{}, ErrGroupRecord
	}

	turn := Turn{
		ID:         stringField(rec, "id"),
		Role:       Role(strings.ToLower(stringField(rec, "role"))),
		Content:    rec.Get("content").String(),
		IsComplete: n.DefaultComplete,
		Mode:       stringField(rec, "mode"),
		PromptID:   stringField(rec, "promptContext.id"),
		Command:    stringField(rec, "command"),
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if v := rec.Get("isComplete"); v.IsBool() {
		turn.IsComplete = v.Bool()
	}

	turn.Kind = normalizeKind(recordType, turn.Role, rec)
	if turn.Role == "" {
		turn.Role = defaultRole(turn.Kind)
	}

	n.normalizeGroup(rec, &turn)
	turn.Usage = normalizeUsage(rec)

	switch turn.Kind {
	case KindTool:
		turn.Tool = normalizeTool(rec)
	case KindLog:
		turn.Level = normalizeLevel(stringField(rec, "level"))
	}

	rec.ForEach(func(key, value gjson.Result) bool {
		if knownFields[key.String()] {
			return true
		}
		if turn.Extra == nil {
			turn.Extra = make(map[string]json.RawMessage)
		}
		turn.Extra[key.String()] = json.RawMessage(value.Raw)
		return true
	})

	return turn, nil
}

// normalizeGroup reads promptContext.group. A missing, blank or non-string
// id leaves the turn ungrouped.
func (n *Normalizer) normalizeGroup(rec gjson.Result, turn *Turn) {
	group := rec.Get("promptContext.group")
	id := group.Get("id")
	if id.Type != gjson.String || strings.TrimSpace(id.Str) == "" {
		return
	}
	turn.GroupID = id.Str
	turn.Group = &Group{
		ID:       id.Str,
		Name:     stringField(group, "name"),
		Color:    stringField(group, "color"),
		Finished: group.Get("finished").Bool(),
	}
}

func normalizeKind(recordType string, role Role, rec gjson.Result) TurnKind {
	switch strings.ReplaceAll(recordType, "-", "_") {
	case "user":
		return KindUser
	case "tool":
		return KindTool
	case "log":
		return KindLog
	case "reflected", "reflected_message":
		return KindReflected
	case "command_output":
		return KindCommandOutput
	case "loading":
		return KindLoading
	}

	switch {
	case role == RoleUser:
		return KindUser
	case role == RoleTool, rec.Get("toolName").Exists():
		return KindTool
	default:
		return KindResponse
	}
}

func defaultRole(kind TurnKind) Role {
	switch kind {
	case KindUser:
		return RoleUser
	case KindTool:
		return RoleTool
	case KindLog, KindCommandOutput:
		return RoleSystem
	default:
		return RoleAssistant
	}
}

// normalizeUsage accepts usageReport either as an object or as an aider
// summary string
func normalizeUsage(rec gjson.Result) *UsageReport {
	usage := rec.Get("usageReport")
	switch {
	case usage.Type == gjson.String:
		report, ok := ParseUsageSummary(usage.Str)
		if !ok {
			return nil
		}
		report.Model = stringField(rec, "model")
		return report
	case usage.IsObject():
		report := &UsageReport{
			Model:          stringField(usage, "model"),
			SentTokens:     int(usage.Get("sentTokens").Int()),
			ReceivedTokens: int(usage.Get("receivedTokens").Int()),
			MessageCost:    usage.Get("messageCost").Float(),
		}
		if report.Model == "" {
			report.Model = stringField(rec, "model")
		}
		if v := usage.Get("cacheWriteTokens"); v.Type == gjson.Number {
			n := int(v.Int())
			report.CacheWriteTokens = &n
		}
		if v := usage.Get("cacheReadTokens"); v.Type == gjson.Number {
			n := int(v.Int())
			report.CacheReadTokens = &n
		}
		return report
	default:
		return nil
	}
}

func normalizeTool(rec gjson.Result) *ToolCall {
	tool := &ToolCall{
		Server: stringField(rec, "serverName"),
		Name:   stringField(rec, "toolName"),
	}
	if args := rec.Get("args"); args.IsObject() {
		if err := json.Unmarshal([]byte(args.Raw), &tool.Args); err != nil {
			LogDebug("Failed to decode tool args for %s: %v", tool.Name, err)
		}
	}
	return tool
}

func normalizeLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func stringField(rec gjson.Result, path string) string {
	v := rec.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// NormalizeRecords converts a batch of records, logging and skipping the ones
// that cannot be used
func (n *Normalizer) NormalizeRecords(records [][]byte) []Turn {
	turns := make([]Turn, 0, len(records))
	for i, raw := range records {
		turn, err := n.NormalizeRecord(raw)
		if err != nil {
			LogWarn("Skipping record %d: %v", i, fmt.Errorf("normalize: %w", err))
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}
