package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PriorityItem is one entry of a ranked-list answer to a priority question.
// Rank is 1-based; rank 1 is the respondent's top priority.
type PriorityItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Rank int    `json:"rank"`
}

// ParsePriorityList decodes the JSON-encoded ranked list stored in a
// priority response value. Ranks must be unique and contiguous from 1.
// The returned slice is sorted by rank.
func ParsePriorityList(value string) ([]PriorityItem, error) {
	var items []PriorityItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, fmt.Errorf("priority value is not a ranked list: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("priority value is empty")
	}

	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.Rank < 1 || it.Rank > len(items) {
			return nil, fmt.Errorf("rank %d out of range [1,%d]", it.Rank, len(items))
		}
		if seen[it.Rank] {
			return nil, fmt.Errorf("duplicate rank %d", it.Rank)
		}
		seen[it.Rank] = true
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Rank < items[j].Rank })
	return items, nil
}
