package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiHyphen = regexp.MustCompile(`-{2,}`)

// Draft holds the hand-authored fields of an entry. Everything else is derived by NewEntry.
type Draft struct {
	ID           string
	Title        string
	SourcePage   int
	Platform     string
	VersionLabel string
	Status       Status
	ImageSrc     string
	OfficialURL  string
}

// NewEntry builds an Entry for site from d, filling in summary, alt text,
// official label, tags and the verification date.
func NewEntry(site Site, d Draft) (Entry, error) {
	if strings.TrimSpace(d.ID) == "" {
		return Entry{}, fmt.Errorf("entry id is required")
	}
	if !d.Status.Valid() {
		return Entry{}, fmt.Errorf("entry %s: %w: %q", d.ID, ErrInvalidStatus, d.Status)
	}
	if d.SourcePage < 1 {
		return Entry{}, fmt.Errorf("entry %s: source page must be >= 1, got %d", d.ID, d.SourcePage)
	}

	return Entry{
		ID:            d.ID,
		Title:         d.Title,
		SourcePage:    d.SourcePage,
		Platform:      d.Platform,
		VersionLabel:  d.VersionLabel,
		Status:        d.Status,
		Summary:       Summary(site, d.Platform, d.VersionLabel),
		ImageSrc:      d.ImageSrc,
		ImageAlt:      ImageAlt(d.Title),
		OfficialURL:   d.OfficialURL,
		OfficialLabel: site.Label,
		Tags:          Tags(site, d.Platform),
		VerifiedOn:    VerifiedOn,
	}, nil
}

// Summary is the generated one-line description shown under each entry.
func Summary(site Site, platform, version string) string {
	return fmt.Sprintf("Community project listed on %s for %s. Latest listed version: %s.", site.Name, platform, version)
}

func ImageAlt(title string) string {
	return title + " cover art"
}

// Tags returns the tag list for an entry: community, the site tag when the
// site has one, then the platform tag.
func Tags(site Site, platform string) []string {
	tags := []string{CommunityTag}
	if site.Tag != "" {
		tags = append(tags, site.Tag)
	}
	if pt := PlatformTag(platform); pt != "" {
		tags = append(tags, pt)
	}
	return tags
}

// PlatformTag converts a platform name into its tag form,
// e.g. "ROM Hacking GB/C" becomes "rom-hacking-gb-c".
func PlatformTag(platform string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, platform)

	result = strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
