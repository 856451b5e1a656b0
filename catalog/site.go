package catalog

import (
	"net/url"
	"strings"
)

// Site describes one of the community listing sites the catalog is built from.
type Site struct {
	Key   string // short identifier used on the command line
	Name  string
	Host  string
	Label string // officialLabel carried by every entry from this site
	Tag   string // site tag, empty when the site has none
}

var (
	SiteWhackAHack = Site{
		Key:   "whackahack",
		Name:  "Whack a Hack",
		Host:  "whackahack.com",
		Label: "Whack a Hack Official Listing",
	}
	SitePokeHarbor = Site{
		Key:   "pokeharbor",
		Name:  "PokeHarbor",
		Host:  "pokeharbor.com",
		Label: "PokeHarbor Official Listing",
		Tag:   "pokeharbor",
	}
)

// Sites lists the origin sites in snapshot order.
func Sites() []Site {
	return []Site{SiteWhackAHack, SitePokeHarbor}
}

// LookupSite finds a site by key, name or host.
func LookupSite(name string) (Site, bool) {
	for _, s := range Sites() {
		if strings.EqualFold(name, s.Key) || strings.EqualFold(name, s.Name) || strings.EqualFold(name, s.Host) {
			return s, true
		}
	}
	return Site{}, false
}

// SiteForURL resolves the origin site from the host of rawURL.
func SiteForURL(rawURL string) (Site, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Site{}, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, s := range Sites() {
		if host == s.Host {
			return s, true
		}
	}
	return Site{}, false
}
