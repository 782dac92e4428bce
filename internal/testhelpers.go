package internal

// CreateTestTurn creates a complete response turn for tests
func CreateTestTurn(id, content string) Turn {
	return Turn{
		ID:         id,
		Kind:       KindResponse,
		Role:       RoleAssistant,
		Content:    content,
		IsComplete: true,
	}
}

// CreateTestGroupedTurn creates a turn belonging to the given group
func CreateTestGroupedTurn(id, content, groupID string, usage *UsageReport) Turn {
	turn := CreateTestTurn(id, content)
	turn.GroupID = groupID
	turn.Group = &Group{ID: groupID}
	turn.Usage = usage
	return turn
}

// CreateTestTranscript creates a transcript with one user turn, one group of
// two responses (the second carrying a SEARCH/REPLACE block) and a log turn
func CreateTestTranscript(id string) *Transcript {
	user := Turn{ID: "u1", Kind: KindUser, Role: RoleUser, Content: "Rename the greeting", IsComplete: true}
	plan := CreateTestGroupedTurn("a1", "I will edit main.go.", "g1", &UsageReport{Model: "gpt-4o", SentTokens: 100, ReceivedTokens: 20, MessageCost: 0.001})
	plan.Group.Name = "Edit main.go"
	edit := CreateTestGroupedTurn("a2", "main.go\n```go\n<<<<<<< SEARCH\nhi\n=======\nhello\n>>>>>>> REPLACE\n```\n", "g1",
		&UsageReport{Model: "gpt-4o", SentTokens: 250, ReceivedTokens: 40, MessageCost: 0.002})
	log := Turn{ID: "l1", Kind: KindLog, Role: RoleSystem, Level: LevelInfo, Content: "tests passed", IsComplete: true}

	t := NewReconstructor().Reconstruct(id, []Turn{user, plan, edit, log})
	t.Name = "Test Transcript"
	return t
}
