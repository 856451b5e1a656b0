package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// VerifiedOn is the date the snapshot was last checked against both listing sites.
const VerifiedOn = "2026-03-14"

// Observed platform values. Entry.Platform stays a free-form string.
const (
	PlatformGBC      = "ROM Hacking GB/C"
	PlatformGBA      = "ROM Hacking GBA"
	PlatformNDS      = "ROM Hacking NDS"
	PlatformRPGMaker = "RPG Maker XP"
	PlatformOther    = "Other Platforms"
)

// CommunityTag is always the first tag of an entry.
const CommunityTag = "community"

var ErrInvalidStatus = errors.New("invalid status")

// Status is the completion state of a hack. Only the two constants below are valid.
type Status string

const (
	StatusPlayable          Status = "Playable"
	StatusActiveDevelopment Status = "Active Development"
)

// ParseStatus returns the Status matching s exactly.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// LookupStatus matches s against the known statuses ignoring case, for user
// input. Decoded data must use ParseStatus.
func LookupStatus(s string) (Status, error) {
	for _, st := range []Status{StatusPlayable, StatusActiveDevelopment} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPlayable || s == StatusActiveDevelopment
}

func (s Status) String() string { return string(s) }

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Entry is one ROM hack listing. Field names match the JSON snapshot keys.
type Entry struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	SourcePage    int      `json:"sourcePage" yaml:"sourcePage"`
	Platform      string   `json:"platform" yaml:"platform"`
	VersionLabel  string   `json:"versionLabel" yaml:"versionLabel"`
	Status        Status   `json:"status" yaml:"status"`
	Summary       string   `json:"summary" yaml:"summary"`
	ImageSrc      string   `json:"imageSrc" yaml:"imageSrc"`
	ImageAlt      string   `json:"imageAlt" yaml:"imageAlt"`
	OfficialURL   string   `json:"officialUrl" yaml:"officialUrl"`
	OfficialLabel string   `json:"officialLabel" yaml:"officialLabel"`
	Tags          []string `json:"tags" yaml:"tags"`
	VerifiedOn    string   `json:"verifiedOn" yaml:"verifiedOn"`
}

// Site returns the listing site the entry was taken from, based on its official URL.
func (e Entry) Site() (Site, bool) {
	return SiteForURL(e.OfficialURL)
}

// HasTag reports whether the entry carries tag (case-insensitive).
func (e Entry) HasTag(tag string) bool {
	return hasTag(e, tag)
}

func (e Entry) clone() Entry {
	out := e
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	return out
}
