package internal

// AggregateUsage combines the usage reports of a group's children.
//
// Token counters are cumulative snapshots, so model and token fields come from
// the last usage-bearing child. Cost is per step and is summed over all of
// them. Returns nil when no child carries usage.
func AggregateUsage(children []Turn) *UsageReport {
	var last *UsageReport
	var cost float64

	for i := range children {
		usage := children[i].Usage
		if usage == nil {
			continue
		}
		last = usage
		cost += usage.MessageCost
	}
	if last == nil {
		return nil
	}

	agg := *last
	agg.CacheWriteTokens = copyInt(last.CacheWriteTokens)
	agg.CacheReadTokens = copyInt(last.CacheReadTokens)
	agg.MessageCost = cost
	return &agg
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
