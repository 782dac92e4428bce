package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/agent-transcript/internal"
)

// UsageLine formats a usage report as a single status line. Cache counts
// appear only when positive and cost only when non-zero. A nil report
// renders as "".
func UsageLine(u *internal.UsageReport) string {
	if u == nil {
		return ""
	}
	var parts []string
	if u.Model != "" {
		parts = append(parts, u.Model)
	}
	if u.CacheWriteTokens != nil && *u.CacheWriteTokens > 0 {
		parts = append(parts, fmt.Sprintf("↓ %s cache write", humanize.Comma(int64(*u.CacheWriteTokens))))
	}
	if u.CacheReadTokens != nil && *u.CacheReadTokens > 0 {
		parts = append(parts, fmt.Sprintf("↑ %s cache read", humanize.Comma(int64(*u.CacheReadTokens))))
	}
	parts = append(parts,
		fmt.Sprintf("→ %s sent", humanize.Comma(int64(u.SentTokens))),
		fmt.Sprintf("← %s received", humanize.Comma(int64(u.ReceivedTokens))),
	)
	if u.MessageCost > 0 {
		parts = append(parts, fmt.Sprintf("$%.5f", u.MessageCost))
	}
	return strings.Join(parts, "  ")
}

func renderUsage(u *internal.UsageReport) string {
	line := UsageLine(u)
	if line == "" {
		return ""
	}
	return usageStyle.Render(line)
}
