package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("entry not found")

// Filter applies all non-empty criteria and returns matching entries.
type Filter struct {
	Platform string
	Status   string
	Site     string // site key, name or host
	Tag      string
	Search   string // matches title, platform, version label or any tag
}

// Apply returns the subset of entries matching all non-empty filter fields,
// preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.Platform != "" && !strings.EqualFold(e.Platform, f.Platform) && !strings.EqualFold(PlatformTag(e.Platform), f.Platform) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(string(e.Status), f.Status) {
			continue
		}
		if f.Site != "" && !matchesSite(e, f.Site) {
			continue
		}
		if f.Tag != "" && !hasTag(e, f.Tag) {
			continue
		}
		if f.Search != "" && !matchesSearch(e, f.Search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ByID returns the entry with the given ID, or nil.
func ByID(entries []Entry, id string) *Entry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}

// Lookup is ByID returning a copy and ErrNotFound for unknown ids.
func Lookup(entries []Entry, id string) (Entry, error) {
	e := ByID(entries, id)
	if e == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.clone(), nil
}

func matchesSite(e Entry, name string) bool {
	want, ok := LookupSite(name)
	if !ok {
		return false
	}
	got, ok := e.Site()
	return ok && got.Key == want.Key
}

func hasTag(e Entry, tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range e.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

func matchesSearch(e Entry, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(e.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Platform), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.VersionLabel), q) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
