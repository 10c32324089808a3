// Package threads rebuilds conversational threads from the archive's flat
// tweet list. The archive's own array order is not reply-ordered, so the
// grouping works purely off reply links and numeric ids.
package threads

import (
	"sort"

	"github.com/jseriesx/tweets2dayone/internal/entities"
)

// Reconstruct partitions the tweets into threads. A tweet whose reply parent
// is not in the archive counts as a root; roots are ordered by ascending
// numeric id, and each thread is the breadth-first walk from its root with
// children visited in ascending-id order. Every tweet lands in exactly one
// thread, regardless of input order.
func Reconstruct(tweets []*entities.Tweet) []entities.Thread {
	byID := make(map[string]*entities.Tweet, len(tweets))
	for _, t := range tweets {
		byID[t.IDStr] = t
	}

	children := make(map[string][]*entities.Tweet)
	isChild := make(map[string]bool)
	for _, t := range tweets {
		parent := t.InReplyToStatusID
		if parent == "" {
			continue
		}
		if _, inArchive := byID[parent]; !inArchive {
			continue // reply to a foreign post, treated as a root
		}
		children[parent] = append(children[parent], t)
		isChild[t.IDStr] = true
	}

	var roots []*entities.Tweet
	for _, t := range tweets {
		if !isChild[t.IDStr] {
			roots = append(roots, t)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return entities.LessID(roots[i].IDStr, roots[j].IDStr)
	})

	threads := make([]entities.Thread, 0, len(roots))
	for _, root := range roots {
		thread := entities.Thread{}
		queue := []*entities.Tweet{root}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			thread = append(thread, current)

			kids := children[current.IDStr]
			sort.Slice(kids, func(i, j int) bool {
				return entities.LessID(kids[i].IDStr, kids[j].IDStr)
			})
			queue = append(queue, kids...)
		}
		threads = append(threads, thread)
	}
	return threads
}
