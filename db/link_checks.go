package db

import (
	"fmt"

	"gorm.io/gorm"
)

// RecordLinkCheck stores the result of one URL check.
func RecordLinkCheck(gdb *gorm.DB, check *LinkCheck) error {
	if err := gdb.Create(check).Error; err != nil {
		return fmt.Errorf("saving link check for %s: %w", check.Slug, err)
	}
	return nil
}

// LatestLinkChecks returns the most recent check of each kind for slug.
func LatestLinkChecks(gdb *gorm.DB, slug string) ([]LinkCheck, error) {
	var checks []LinkCheck
	err := gdb.Where("slug = ?", slug).Order("checked_at DESC").Order("id DESC").Find(&checks).Error
	if err != nil {
		return nil, fmt.Errorf("loading link checks for %s: %w", slug, err)
	}

	seen := map[string]bool{}
	var latest []LinkCheck
	for _, c := range checks {
		if seen[c.Kind] {
			continue
		}
		seen[c.Kind] = true
		latest = append(latest, c)
	}
	return latest, nil
}

// FailedSlugs lists slugs whose most recent check of any kind failed.
func FailedSlugs(gdb *gorm.DB) ([]string, error) {
	var slugs []string
	err := gdb.Model(&LinkCheck{}).Distinct("slug").Order("slug").Pluck("slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("listing checked slugs: %w", err)
	}

	var failed []string
	for _, slug := range slugs {
		latest, err := LatestLinkChecks(gdb, slug)
		if err != nil {
			return nil, err
		}
		for _, c := range latest {
			if !c.OK {
				failed = append(failed, slug)
				break
			}
		}
	}
	return failed, nil
}
