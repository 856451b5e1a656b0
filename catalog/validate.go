package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the format of verifiedOn.
const DateLayout = "2006-01-02"

// IntegrityError describes one data defect found in a catalog.
type IntegrityError struct {
	ID     string
	Index  int
	Field  string
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("entry #%d: %s: %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("entry %s: %s: %s", e.ID, e.Field, e.Reason)
}

// Validate checks the data-integrity rules every snapshot must satisfy and
// returns all problems joined into one error, or nil.
//
// Rules: ids are unique, status is Playable or Active Development, id, title,
// imageSrc and officialUrl are set, both URLs are absolute https URLs on an
// origin site, officialLabel is that site's label, imageAlt is derived from
// the title, tags start with "community", sourcePage is at least 1 and all
// entries share one YYYY-MM-DD verifiedOn date.
func Validate(entries []Entry) error {
	var errs []error
	add := func(i int, e Entry, field, reason string) {
		errs = append(errs, &IntegrityError{ID: e.ID, Index: i, Field: field, Reason: reason})
	}

	seen := make(map[string]int, len(entries))
	verifiedOn := ""
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			add(i, e, "id", "must not be empty")
		} else if first, dup := seen[e.ID]; dup {
			add(i, e, "id", fmt.Sprintf("duplicate of entry #%d", first))
		} else {
			seen[e.ID] = i
		}

		if strings.TrimSpace(e.Title) == "" {
			add(i, e, "title", "must not be empty")
		} else if want := ImageAlt(e.Title); e.ImageAlt != want {
			add(i, e, "imageAlt", fmt.Sprintf("%q, want %q", e.ImageAlt, want))
		}
		if !e.Status.Valid() {
			add(i, e, "status", fmt.Sprintf("%q is not a known status", e.Status))
		}
		if e.SourcePage < 1 {
			add(i, e, "sourcePage", fmt.Sprintf("must be >= 1, got %d", e.SourcePage))
		}
		if reason := checkURL(e.ImageSrc); reason != "" {
			add(i, e, "imageSrc", reason)
		}
		if reason := checkURL(e.OfficialURL); reason != "" {
			add(i, e, "officialUrl", reason)
		} else if site, _ := SiteForURL(e.OfficialURL); e.OfficialLabel != site.Label {
			add(i, e, "officialLabel", fmt.Sprintf("%q, want %q for %s", e.OfficialLabel, site.Label, site.Name))
		}
		if len(e.Tags) == 0 || e.Tags[0] != CommunityTag {
			add(i, e, "tags", fmt.Sprintf("first tag must be %q", CommunityTag))
		}

		if _, err := time.Parse(DateLayout, e.VerifiedOn); err != nil {
			add(i, e, "verifiedOn", fmt.Sprintf("%q is not a YYYY-MM-DD date", e.VerifiedOn))
		} else if verifiedOn == "" {
			verifiedOn = e.VerifiedOn
		} else if e.VerifiedOn != verifiedOn {
			add(i, e, "verifiedOn", fmt.Sprintf("%q differs from snapshot date %q", e.VerifiedOn, verifiedOn))
		}
	}

	return errors.Join(errs...)
}

// Problems unpacks the error returned by Validate.
func Problems(err error) []*IntegrityError {
	if err == nil {
		return nil
	}
	var out []*IntegrityError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var ie *IntegrityError
			if errors.As(e, &ie) {
				out = append(out, ie)
			}
		}
		return out
	}
	var ie *IntegrityError
	if errors.As(err, &ie) {
		out = append(out, ie)
	}
	return out
}

func checkURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "must not be empty"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("not a valid URL: %v", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "must be an absolute URL"
	}
	if u.Scheme != "https" {
		return fmt.Sprintf("scheme must be https, got %s", u.Scheme)
	}
	if _, ok := SiteForURL(raw); !ok {
		return fmt.Sprintf("host %s is not an origin site", u.Host)
	}
	return ""
}
