package cmd

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"romhack-catalog/catalog"
	"romhack-catalog/config"
	"romhack-catalog/db"
	"romhack-catalog/logger"

	"go.uber.org/zap"
)

// bootstrap loads configuration and the catalog every command works on.
func bootstrap(dir string) (config.Config, []catalog.Entry, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		logger.Log.Errorw("Failed to load configuration", zap.Error(err))
		return config.Config{}, nil, fmt.Errorf("loading configuration: %w", err)
	}

	entries, err := loadEntries(cfg)
	if err != nil {
		logger.Log.Errorw("Failed to load catalog", zap.String("file", cfg.CatalogFile), zap.Error(err))
		return config.Config{}, nil, err
	}
	return cfg, entries, nil
}

// bootstrapDB is bootstrap plus an opened database holding the current catalog.
func bootstrapDB(dir string) (config.Config, []catalog.Entry, error) {
	cfg, entries, err := bootstrap(dir)
	if err != nil {
		return cfg, nil, err
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	res, err := db.SyncEntries(db.DB, entries)
	if err != nil {
		return cfg, nil, fmt.Errorf("syncing catalog into database: %w", err)
	}
	logger.Log.Infow("Catalog synced",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("removed", res.Removed),
	)
	return cfg, entries, nil
}

// loadEntries returns the embedded catalog, or the CATALOG_FILE snapshot when one is configured.
func loadEntries(cfg config.Config) ([]catalog.Entry, error) {
	if cfg.CatalogFile == "" {
		return catalog.Entries(), nil
	}

	entries, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	if err := catalog.Validate(entries); err != nil {
		logger.Log.Warnw("Catalog file has integrity problems, run 'romhacks validate'",
			zap.String("file", cfg.CatalogFile),
			zap.Int("problems", len(catalog.Problems(err))),
		)
	}
	logger.Log.Infow("Loaded catalog file", zap.String("file", cfg.CatalogFile), zap.Int("entries", len(entries)))
	return entries, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}

// padRight pads s to width runes; fmt's %-Ns counts bytes, which misaligns accented titles.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// coverFileName names the local copy of an entry's cover: the entry id plus
// the image's extension.
func coverFileName(e catalog.Entry) string {
	ext := ".img"
	if u, err := url.Parse(e.ImageSrc); err == nil {
		if x := strings.ToLower(path.Ext(u.Path)); imageExtensions[x] {
			ext = x
		}
	}
	return e.ID + ext
}

func calculateSHA1(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha1.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
