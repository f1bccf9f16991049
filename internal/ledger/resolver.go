package ledger

import (
	"sort"
	"strings"

	"github.com/bookwright-dev/bookwright/internal/model"
)

// Resolve finds an account by name with a deterministic three-tier
// strategy. Each tier scans the full descendant set in pre-order and
// returns the first hit; a later tier runs only when the previous one
// found nothing at all:
//
//  1. exact full-path match
//  2. suffix match on ".{query}" (a leaf addressed by its short name)
//  3. case-insensitive substring match
//
// Ties within a tier go to the first account encountered; callers needing
// disambiguation must supply a more specific query.
func Resolve(root *model.Account, query string) *model.Account {
	descendants := root.Descendants()

	for _, acc := range descendants {
		if acc.FullName() == query {
			return acc
		}
	}

	suffix := "." + query
	for _, acc := range descendants {
		if strings.HasSuffix(acc.FullName(), suffix) {
			return acc
		}
	}

	lower := strings.ToLower(query)
	for _, acc := range descendants {
		if strings.Contains(strings.ToLower(acc.FullName()), lower) {
			return acc
		}
	}
	return nil
}

// Search returns every account whose full path contains query
// (case-insensitive), sorted by full path. Used for discovery; no tiering.
func Search(root *model.Account, query string) []*model.Account {
	lower := strings.ToLower(query)
	var matches []*model.Account
	for _, acc := range root.Descendants() {
		if strings.Contains(strings.ToLower(acc.FullName()), lower) {
			matches = append(matches, acc)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].FullName() < matches[j].FullName()
	})
	return matches
}
