// Package nav holds the site navigation entries and decides which entry is
// the current page.
package nav

import "strings"

type Item struct {
	Label    string
	Href     string
	External bool
	Download bool
	Current  bool
}

// Links are the externally configured targets of the secondary navigation.
type Links struct {
	GitHub   string
	LinkedIn string
	Resume   string
}

func Primary() []Item {
	return []Item{
		{Label: "Home", Href: "/"},
		{Label: "Projects", Href: "/projects"},
		{Label: "About", Href: "/about"},
		{Label: "Contact", Href: "/contact"},
	}
}

func Secondary(links Links) []Item {
	return []Item{
		{Label: "GitHub", Href: links.GitHub, External: true},
		{Label: "LinkedIn", Href: links.LinkedIn, External: true},
		{Label: "Resume", Href: links.Resume, Download: true},
	}
}

// IsCurrent reports whether href is the active entry for path. The root
// entry only matches the root path; any other entry matches its own path and
// everything below it.
func IsCurrent(path, href string) bool {
	if href == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, href)
}

// Mark returns a copy of items with Current set for path.
func Mark(path string, items []Item) []Item {
	marked := make([]Item, len(items))
	for i, item := range items {
		item.Current = !item.External && !item.Download && IsCurrent(path, item.Href)
		marked[i] = item
	}
	return marked
}
