package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"romhack-catalog/catalog"
	"romhack-catalog/db"
	"romhack-catalog/logger"
	"romhack-catalog/origin"
)

const (
	linkKindOfficial = "official"
	linkKindImage    = "image"
)

var (
	verifyTUI        bool
	verifySite       string
	verifyOnlyFailed bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every listing page and cover image is reachable",
	Long: `Request every officialUrl and imageSrc in the catalog and record the
results in the local database. Exits non-zero when any link fails.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger.Log.Info("Running verify command...")

		cfg, entries, err := bootstrapDB(flagConfigDir)
		if err != nil {
			return err
		}

		if verifySite != "" {
			if _, ok := catalog.LookupSite(verifySite); !ok {
				return fmt.Errorf("unknown site %q", verifySite)
			}
			entries = catalog.Filter{Site: verifySite}.Apply(entries)
		}
		if verifyOnlyFailed {
			entries, err = onlyFailed(db.DB, entries)
			if err != nil {
				return err
			}
		}
		if len(entries) == 0 {
			fmt.Println("Nothing to check.")
			return nil
		}

		client, err := origin.NewClient(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var summary verifySummary
		if verifyTUI {
			summary, err = runVerifyTUI(ctx, client, entries, cfg.CheckConcurrency)
			if err != nil {
				return err
			}
		} else {
			summary = runVerifyPlain(ctx, client, entries, cfg.CheckConcurrency)
		}

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d link(s) failed", summary.Failed, summary.Checked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyTUI, "tui", false, "Show an interactive progress view")
	verifyCmd.Flags().StringVar(&verifySite, "site", "", "Only check entries from this site")
	verifyCmd.Flags().BoolVar(&verifyOnlyFailed, "failed", false, "Only re-check entries whose last check failed")
}

// VerifyProgressMsg reports progress from runVerify.
type VerifyProgressMsg struct {
	Type       string // "status", "check", "result", "summary"
	Message    string
	Slug       string
	Title      string
	Kind       string
	URL        string
	OK         bool
	StatusCode int
}

type linkChecker interface {
	CheckURL(ctx context.Context, rawURL string) origin.LinkResult
}

type linkJob struct {
	entry catalog.Entry
	kind  string
	url   string
}

type verifySummary struct {
	Checked int64
	OK      int64
	Failed  int64
	Elapsed time.Duration
}

func (s verifySummary) String() string {
	return fmt.Sprintf("Checked %d links in %s: %d ok, %d failed.", s.Checked, s.Elapsed.Round(time.Millisecond), s.OK, s.Failed)
}

// linkJobs lists both URLs of every entry, official page first.
func linkJobs(entries []catalog.Entry) []linkJob {
	jobs := make([]linkJob, 0, len(entries)*2)
	for _, e := range entries {
		jobs = append(jobs,
			linkJob{entry: e, kind: linkKindOfficial, url: e.OfficialURL},
			linkJob{entry: e, kind: linkKindImage, url: e.ImageSrc},
		)
	}
	return jobs
}

func onlyFailed(gdb *gorm.DB, entries []catalog.Entry) ([]catalog.Entry, error) {
	slugs, err := db.FailedSlugs(gdb)
	if err != nil {
		return nil, err
	}
	failed := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		failed[s] = true
	}
	var out []catalog.Entry
	for _, e := range entries {
		if failed[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// runVerify checks every link of entries with at most concurrency requests in
// flight, stores each result when gdb is not nil and streams progress to
// progress when it is not nil.
func runVerify(ctx context.Context, checker linkChecker, gdb *gorm.DB, entries []catalog.Entry, concurrency int, progress chan<- VerifyProgressMsg) verifySummary {
	// Sends give up once ctx is done so an abandoned reader cannot stall the workers.
	send := func(msg VerifyProgressMsg) {
		if progress == nil {
			return
		}
		select {
		case progress <- msg:
		case <-ctx.Done():
		}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	start := time.Now()
	jobs := linkJobs(entries)
	send(VerifyProgressMsg{Type: "status", Message: fmt.Sprintf("Checking %d links across %d entries...", len(jobs), len(entries))})
	logger.Log.Infof("Checking %d links across %d entries with concurrency %d", len(jobs), len(entries), concurrency)

	var okCount atomic.Int64
	var failedCount atomic.Int64
	var wg sync.WaitGroup
	var dbMu sync.Mutex // sqlite takes one writer at a time
	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		wg.Add(1)
		go func(j linkJob) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}

			jobLogger := logger.Log.With(zap.String("slug", j.entry.ID), zap.String("kind", j.kind))
			send(VerifyProgressMsg{Type: "check", Slug: j.entry.ID, Title: j.entry.Title, Kind: j.kind, URL: j.url})

			res := checker.CheckURL(ctx, j.url)
			check := db.LinkCheck{
				Slug:       j.entry.ID,
				Kind:       j.kind,
				URL:        j.url,
				StatusCode: res.StatusCode,
				OK:         res.OK,
				Duration:   res.Duration,
				CheckedAt:  time.Now(),
			}
			if res.OK {
				okCount.Add(1)
				jobLogger.Infow("Link ok", zap.Int("status", res.StatusCode), zap.Duration("took", res.Duration))
			} else {
				failedCount.Add(1)
				if res.Err != nil {
					check.Error = res.Err.Error()
				}
				jobLogger.Warnw("Link failed", zap.String("url", j.url), zap.Int("status", res.StatusCode), zap.Error(res.Err))
			}

			if gdb != nil {
				dbMu.Lock()
				err := db.RecordLinkCheck(gdb, &check)
				dbMu.Unlock()
				if err != nil {
					jobLogger.Warnw("Failed to save link check", zap.Error(err))
				}
			}

			send(VerifyProgressMsg{
				Type:       "result",
				Slug:       j.entry.ID,
				Title:      j.entry.Title,
				Kind:       j.kind,
				URL:        j.url,
				OK:         res.OK,
				StatusCode: res.StatusCode,
				Message:    check.Error,
			})
		}(job)
	}

	wg.Wait()

	summary := verifySummary{
		OK:      okCount.Load(),
		Failed:  failedCount.Load(),
		Elapsed: time.Since(start),
	}
	summary.Checked = summary.OK + summary.Failed
	logger.Log.Infow("Verify finished", zap.Int64("ok", summary.OK), zap.Int64("failed", summary.Failed))
	send(VerifyProgressMsg{Type: "summary", Message: summary.String()})
	return summary
}

// runVerifyPlain prints failures as they arrive and the summary at the end.
func runVerifyPlain(ctx context.Context, checker linkChecker, entries []catalog.Entry, concurrency int) verifySummary {
	progress := make(chan VerifyProgressMsg, 100)
	done := make(chan verifySummary, 1)
	go func() {
		defer close(progress)
		done <- runVerify(ctx, checker, db.DB, entries, concurrency, progress)
	}()

	for msg := range progress {
		switch msg.Type {
		case "status":
			fmt.Println(msg.Message)
		case "result":
			if !msg.OK {
				fmt.Printf("%s %s %s (%s) %s\n", color.RedString("FAIL"), msg.Slug, msg.Kind, statusText(msg.StatusCode), msg.URL)
			}
		case "summary":
			fmt.Println(msg.Message)
		}
	}
	return <-done
}

// runVerifyTUI shows the progress view while runVerify works. Quitting the
// view early cancels the remaining checks and waits for in-flight ones.
func runVerifyTUI(ctx context.Context, checker linkChecker, entries []catalog.Entry, concurrency int, opts ...tea.ProgramOption) (verifySummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan VerifyProgressMsg, 100)
	result := make(chan verifySummary, 1)
	go func() {
		defer close(progress)
		result <- runVerify(ctx, checker, db.DB, entries, concurrency, progress)
	}()

	final, err := tea.NewProgram(initialVerifyModel(progress), opts...).Run()
	if err != nil {
		cancel()
		<-result
		return verifySummary{}, fmt.Errorf("running progress view: %w", err)
	}
	if vm, ok := final.(VerifyModel); !ok || !vm.done {
		cancel()
		summary := <-result
		logger.Log.Warnw("Verify interrupted", zap.Int64("checked", summary.Checked))
		return summary, fmt.Errorf("verify interrupted after %d link(s)", summary.Checked)
	}
	return <-result, nil
}

func statusText(code int) string {
	if code == 0 {
		return "no response"
	}
	return fmt.Sprintf("HTTP %d", code)
}
