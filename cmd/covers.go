package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"romhack-catalog/catalog"
	"romhack-catalog/db"
	"romhack-catalog/logger"
	"romhack-catalog/origin"
)

var coversForce bool

var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "Download cover art for every entry",
	Long: `Download each entry's imageSrc into the covers directory. Files already
present are scanned first and skipped while their recorded SHA1 still matches.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger.Log.Info("Running covers command...")

		cfg, entries, err := bootstrapDB(flagConfigDir)
		if err != nil {
			return err
		}

		client, err := origin.NewClient(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := importExistingCovers(db.DB, cfg.CoversDir); err != nil {
			return err
		}

		res := downloadCovers(ctx, client, db.DB, entries, cfg.CoversDir, cfg.CheckConcurrency, coversForce)
		fmt.Printf("Covers: %d downloaded, %d up to date, %d failed.\n", res.Downloaded, res.Skipped, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("%d cover(s) could not be downloaded", res.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coversCmd)
	coversCmd.Flags().BoolVar(&coversForce, "force", false, "Download every cover even when the local copy is current")
}

type coverDownloader interface {
	DownloadCover(ctx context.Context, log *zap.SugaredLogger, destinationPath, downloadURL string) error
}

type coversResult struct {
	Downloaded int64
	Skipped    int64
	Failed     int64
}

// importExistingCovers records image files already in dir against the entry
// whose id matches the file name.
func importExistingCovers(gdb *gorm.DB, dir string) error {
	logger.Log.Infow("Scanning for existing covers...", zap.String("dir", dir))

	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading covers directory: %w", err)
	}

	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExtensions[ext] && ext != ".img" {
			continue
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))

		hack, err := db.FindHack(gdb, slug)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Warnw("Failed to look up cover owner", zap.String("file", name), zap.Error(err))
			}
			continue
		}

		path := filepath.Join(dir, name)
		hash, err := calculateSHA1(path)
		if err != nil {
			logger.Log.Warnw("Failed to calculate hash", zap.String("file", name), zap.Error(err))
			continue
		}
		if hack.CoverPath == path && hack.CoverSHA1 == hash {
			continue
		}

		if err := db.SetCover(gdb, slug, path, hash); err != nil {
			logger.Log.Errorw("Failed to save imported cover", zap.String("slug", slug), zap.Error(err))
			continue
		}
		logger.Log.Infow("Imported existing cover", zap.String("slug", slug), zap.String("file", name))
	}
	return nil
}

// coverIsCurrent reports whether the recorded cover for e is on disk with the recorded hash.
func coverIsCurrent(gdb *gorm.DB, e catalog.Entry, dest string) bool {
	hack, err := db.FindHack(gdb, e.ID)
	if err != nil || hack.CoverSHA1 == "" || hack.CoverPath != dest {
		return false
	}
	hash, err := calculateSHA1(dest)
	return err == nil && hash == hack.CoverSHA1
}

func downloadCovers(ctx context.Context, dl coverDownloader, gdb *gorm.DB, entries []catalog.Entry, dir string, concurrency int, force bool) coversResult {
	if concurrency < 1 {
		concurrency = 1
	}

	var downloaded, skipped, failed atomic.Int64
	var wg sync.WaitGroup
	var dbMu sync.Mutex
	sem := make(chan struct{}, concurrency)

	for _, entry := range entries {
		dest := filepath.Join(dir, coverFileName(entry))

		dbMu.Lock()
		current := !force && coverIsCurrent(gdb, entry, dest)
		dbMu.Unlock()
		if current {
			skipped.Add(1)
			continue
		}

		wg.Add(1)
		go func(e catalog.Entry, dest string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				failed.Add(1)
				return
			}
			defer func() { <-sem }()

			entryLogger := logger.Log.With(zap.String("slug", e.ID))
			if err := dl.DownloadCover(ctx, entryLogger, dest, e.ImageSrc); err != nil {
				failed.Add(1)
				entryLogger.Errorw("Cover download failed", zap.String("url", e.ImageSrc), zap.Error(err))
				fmt.Printf("%s %s: %v\n", color.RedString("FAIL"), e.ID, err)
				return
			}

			hash, err := calculateSHA1(dest)
			if err != nil {
				failed.Add(1)
				entryLogger.Errorw("Failed to hash downloaded cover", zap.Error(err))
				return
			}

			dbMu.Lock()
			err = db.SetCover(gdb, e.ID, dest, hash)
			dbMu.Unlock()
			if err != nil {
				failed.Add(1)
				entryLogger.Errorw("Failed to record cover", zap.Error(err))
				return
			}
			downloaded.Add(1)
			entryLogger.Infow("Cover downloaded", zap.String("file", dest))
		}(entry, dest)
	}

	wg.Wait()
	return coversResult{
		Downloaded: downloaded.Load(),
		Skipped:    skipped.Load(),
		Failed:     failed.Load(),
	}
}
