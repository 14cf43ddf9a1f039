package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinRecentChanges     = 1
	MaxRecentChanges     = 50
	DefaultRecentChanges = 10
)

// ChangeCategory groups recent-change kinds for display.
type ChangeCategory string

const (
	ChangeCategoryEdit   ChangeCategory = "edit"
	ChangeCategoryNew    ChangeCategory = "new"
	ChangeCategoryMerge  ChangeCategory = "merge"
	ChangeCategoryDelete ChangeCategory = "delete"
	ChangeCategoryOther  ChangeCategory = "other"
)

// CategorizeChange maps an upstream kind such as "edit-book" or "merge-authors".
func CategorizeChange(kind string) ChangeCategory {
	k := strings.ToLower(kind)

	switch {
	case strings.Contains(k, "edit"):
		return ChangeCategoryEdit
	case strings.Contains(k, "new"):
		return ChangeCategoryNew
	case strings.Contains(k, "merge"):
		return ChangeCategoryMerge
	case strings.Contains(k, "delete"):
		return ChangeCategoryDelete
	default:
		return ChangeCategoryOther
	}
}

// RelativeTime formats t relative to now: "just now", "5 min ago", "3h ago",
// "2d ago", or the calendar date for anything a week old or more.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	minutes := int(diff / time.Minute)
	if minutes < 1 {
		return "just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}

	return t.Format("2006-01-02")
}
