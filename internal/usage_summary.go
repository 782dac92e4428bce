package internal

import (
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	summaryTokenItem = regexp.MustCompile(`(?i)([\d.,]+\s*[kM]?)\s+(sent|received|cache write|cache hit)`)
	summaryCostItem  = regexp.MustCompile(`(?i)\$([\d.,]+)\s+message`)

	tokenSuffixes = strings.NewReplacer(",", "", "K", "k", "m", "M")
)

// ParseUsageSummary parses an aider style usage line such as
//
//	Tokens: 1.6k sent, 2.0k cache write, 1.2k cache hit, 37 received. Cost: $0.0034 message, $0.0055 session.
//
// The session cost is not kept; only the per message cost is part of a report.
func ParseUsageSummary(s string) (*UsageReport, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToLower(s), "tokens:") {
		return nil, false
	}

	tokensPart, costPart := s, ""
	if idx := strings.Index(strings.ToLower(s), "cost:"); idx >= 0 {
		tokensPart, costPart = s[:idx], s[idx:]
	}

	report := &UsageReport{}
	found := false
	for _, m := range summaryTokenItem.FindAllStringSubmatch(tokensPart, -1) {
		n, ok := parseTokenCount(m[1])
		if !ok {
			continue
		}
		found = true
		switch strings.ToLower(m[2]) {
		case "sent":
			report.SentTokens = n
		case "received":
			report.ReceivedTokens = n
		case "cache write":
			report.CacheWriteTokens = &n
		case "cache hit":
			report.CacheReadTokens = &n
		}
	}
	if !found {
		return nil, false
	}

	if m := summaryCostItem.FindStringSubmatch(costPart); m != nil {
		if cost, _, err := humanize.ParseSI(strings.ReplaceAll(m[1], ",", "")); err == nil {
			report.MessageCost = cost
		}
	}
	return report, true
}

// parseTokenCount reads counts like "37", "1,204", "1.6k", "2M" or "2m"
func parseTokenCount(s string) (int, bool) {
	// token counts have no milli; "m" always means millions
	s = tokenSuffixes.Replace(strings.TrimSpace(s))
	v, _, err := humanize.ParseSI(s)
	if err != nil {
		return 0, false
	}
	return int(math.Round(v)), true
}
