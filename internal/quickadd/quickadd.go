// Package quickadd turns a single free-text line into an expense draft.
//
// It is the local stand-in for the natural-language ingestion path: the
// parser pulls the first decimal-looking token out of the line as the amount,
// treats a trailing "#tag" or "@tag" token as the category, and keeps the
// rest as the item label. "coffee 4.50 #food" and "12,30 taxi" both work.
package quickadd

import (
	"regexp"
	"strings"
	"time"

	"outlay/internal/core"
)

var amountPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)

// DefaultCategory is assigned when the line carries no category tag.
const DefaultCategory = "misc"

// Parse builds a draft dated today from a free-text line. The returned draft
// still goes through the normal ingestion validation; Parse itself only
// errors when it cannot find an amount or is left with no item text.
func Parse(line string, now time.Time) (core.Draft, error) {
	draft := core.Draft{
		Category: DefaultCategory,
		Date:     now.Format(core.DateLayout),
	}

	fields := strings.Fields(line)
	var itemWords []string
	haveAmount := false

	for _, f := range fields {
		switch {
		case !haveAmount && amountPattern.MatchString(f):
			v, err := core.ParseAmount(f)
			if err != nil {
				return core.Draft{}, err
			}
			draft.Amount = v
			haveAmount = true
		case strings.HasPrefix(f, "#") || strings.HasPrefix(f, "@"):
			if tag := strings.TrimLeft(f, "#@"); tag != "" {
				draft.Category = strings.ToLower(tag)
			}
		default:
			itemWords = append(itemWords, f)
		}
	}

	if !haveAmount {
		return core.Draft{}, core.ErrInvalidAmount
	}
	draft.Item = strings.Join(itemWords, " ")
	if draft.Item == "" {
		return core.Draft{}, core.ErrEmptyItem
	}
	return draft, nil
}
