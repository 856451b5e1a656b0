package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"romhack-catalog/catalog"
)

const tagSeparator = "|"

// SyncResult counts what SyncEntries did.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	Removed   int
}

// SyncEntries mirrors entries into the hacks table. Rows are matched by slug;
// rows whose slug is no longer in entries are soft-deleted, and a soft-deleted
// row is restored when its slug comes back. Running it twice with the same
// entries changes nothing the second time.
func SyncEntries(gdb *gorm.DB, entries []catalog.Entry) (SyncResult, error) {
	var res SyncResult

	err := gdb.Transaction(func(tx *gorm.DB) error {
		slugs := make([]string, 0, len(entries))
		for i, e := range entries {
			slugs = append(slugs, e.ID)

			var h Hack
			err := tx.Unscoped().Where("slug = ?", e.ID).First(&h).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				h = Hack{Slug: e.ID}
				applyEntry(&h, i, e)
				if err := tx.Create(&h).Error; err != nil {
					return fmt.Errorf("creating %s: %w", e.ID, err)
				}
				res.Created++
				continue
			case err != nil:
				return fmt.Errorf("looking up %s: %w", e.ID, err)
			}

			deleted := h.DeletedAt.Valid
			if !applyEntry(&h, i, e) && !deleted {
				res.Unchanged++
				continue
			}
			h.DeletedAt = gorm.DeletedAt{}
			if err := tx.Unscoped().Save(&h).Error; err != nil {
				return fmt.Errorf("updating %s: %w", e.ID, err)
			}
			res.Updated++
		}

		q := tx.Model(&Hack{})
		if len(slugs) > 0 {
			q = q.Where("slug NOT IN ?", slugs)
		} else {
			q = q.Where("1 = 1")
		}
		del := q.Delete(&Hack{})
		if del.Error != nil {
			return fmt.Errorf("removing stale hacks: %w", del.Error)
		}
		res.Removed = int(del.RowsAffected)
		return nil
	})

	return res, err
}

// applyEntry copies e onto h and reports whether anything changed.
func applyEntry(h *Hack, position int, e catalog.Entry) bool {
	next := *h
	next.Position = position
	next.Title = e.Title
	next.SourcePage = e.SourcePage
	next.Platform = e.Platform
	next.VersionLabel = e.VersionLabel
	next.Status = string(e.Status)
	next.Summary = e.Summary
	next.ImageSrc = e.ImageSrc
	next.ImageAlt = e.ImageAlt
	next.OfficialURL = e.OfficialURL
	next.OfficialLabel = e.OfficialLabel
	next.Tags = strings.Join(e.Tags, tagSeparator)
	next.VerifiedOn = e.VerifiedOn

	if next.ImageSrc != h.ImageSrc {
		// cached cover belongs to the old image
		next.CoverPath = ""
		next.CoverSHA1 = ""
	}

	changed := next != *h
	*h = next
	return changed
}

// Entry converts a stored row back into a catalog entry.
func (h Hack) Entry() (catalog.Entry, error) {
	status, err := catalog.ParseStatus(h.Status)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("hack %s: %w", h.Slug, err)
	}
	var tags []string
	if h.Tags != "" {
		tags = strings.Split(h.Tags, tagSeparator)
	}
	return catalog.Entry{
		ID:            h.Slug,
		Title:         h.Title,
		SourcePage:    h.SourcePage,
		Platform:      h.Platform,
		VersionLabel:  h.VersionLabel,
		Status:        status,
		Summary:       h.Summary,
		ImageSrc:      h.ImageSrc,
		ImageAlt:      h.ImageAlt,
		OfficialURL:   h.OfficialURL,
		OfficialLabel: h.OfficialLabel,
		Tags:          tags,
		VerifiedOn:    h.VerifiedOn,
	}, nil
}

// ListEntries returns the mirrored catalog in snapshot order.
func ListEntries(gdb *gorm.DB) ([]catalog.Entry, error) {
	var hacks []Hack
	if err := gdb.Order("position ASC").Find(&hacks).Error; err != nil {
		return nil, fmt.Errorf("listing hacks: %w", err)
	}
	entries := make([]catalog.Entry, 0, len(hacks))
	for _, h := range hacks {
		e, err := h.Entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FindHack returns the row for slug, or gorm.ErrRecordNotFound.
func FindHack(gdb *gorm.DB, slug string) (Hack, error) {
	var h Hack
	err := gdb.Where("slug = ?", slug).First(&h).Error
	return h, err
}

// SetCover records a downloaded cover for slug.
func SetCover(gdb *gorm.DB, slug, path, sha1 string) error {
	res := gdb.Model(&Hack{}).Where("slug = ?", slug).Updates(Hack{CoverPath: path, CoverSHA1: sha1})
	if res.Error != nil {
		return fmt.Errorf("saving cover for %s: %w", slug, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("saving cover for %s: %w", slug, gorm.ErrRecordNotFound)
	}
	return nil
}
