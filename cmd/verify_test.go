package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gorm.io/gorm"

	"romhack-catalog/catalog"
	"romhack-catalog/db"
	"romhack-catalog/origin"
)

type fakeChecker struct {
	mu     sync.Mutex
	broken map[string]int // url -> status code, 0 means unreachable
	calls  []string
}

func (f *fakeChecker) CheckURL(_ context.Context, rawURL string) origin.LinkResult {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()

	if code, ok := f.broken[rawURL]; ok {
		return origin.LinkResult{URL: rawURL, StatusCode: code, Err: errors.New("broken link")}
	}
	return origin.LinkResult{URL: rawURL, StatusCode: http.StatusOK, OK: true}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestLinkJobs(t *testing.T) {
	entries := catalog.Entries()[:2]
	jobs := linkJobs(entries)
	if len(jobs) != 4 {
		t.Fatalf("got %d jobs, want 4", len(jobs))
	}
	if jobs[0].kind != linkKindOfficial || jobs[0].url != entries[0].OfficialURL {
		t.Errorf("jobs[0] = %+v", jobs[0])
	}
	if jobs[1].kind != linkKindImage || jobs[1].url != entries[0].ImageSrc {
		t.Errorf("jobs[1] = %+v", jobs[1])
	}
}

func TestRunVerify(t *testing.T) {
	gdb := testDB(t)
	entries := catalog.Entries()[:3]
	checker := &fakeChecker{broken: map[string]int{entries[1].ImageSrc: http.StatusNotFound}}

	progress := make(chan VerifyProgressMsg, 100)
	summary := runVerify(context.Background(), checker, gdb, entries, 2, progress)
	close(progress)

	if summary.Checked != 6 || summary.OK != 5 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(checker.calls) != 6 {
		t.Errorf("checker called %d times, want 6", len(checker.calls))
	}

	var results, failures int
	var sawSummary bool
	for msg := range progress {
		switch msg.Type {
		case "result":
			results++
			if !msg.OK {
				failures++
				if msg.Slug != entries[1].ID || msg.Kind != linkKindImage || msg.StatusCode != http.StatusNotFound {
					t.Errorf("failure message = %+v", msg)
				}
			}
		case "summary":
			sawSummary = true
			if !strings.Contains(msg.Message, "1 failed") {
				t.Errorf("summary message = %q", msg.Message)
			}
		}
	}
	if results != 6 || failures != 1 || !sawSummary {
		t.Errorf("results=%d failures=%d summary=%v", results, failures, sawSummary)
	}

	failed, err := db.FailedSlugs(gdb)
	if err != nil {
		t.Fatalf("FailedSlugs: %v", err)
	}
	if len(failed) != 1 || failed[0] != entries[1].ID {
		t.Errorf("FailedSlugs = %v", failed)
	}

	checks, err := db.LatestLinkChecks(gdb, entries[1].ID)
	if err != nil {
		t.Fatalf("LatestLinkChecks: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(checks))
	}
	for _, c := range checks {
		if c.Kind == linkKindImage && (c.OK || c.Error != "broken link") {
			t.Errorf("image check = %+v", c)
		}
	}

	only, err := onlyFailed(gdb, entries)
	if err != nil {
		t.Fatalf("onlyFailed: %v", err)
	}
	if len(only) != 1 || only[0].ID != entries[1].ID {
		t.Errorf("onlyFailed = %v", only)
	}
}

func TestRunVerify_NoDatabase(t *testing.T) {
	entries := catalog.Entries()[:2]
	summary := runVerify(context.Background(), &fakeChecker{}, nil, entries, 0, nil)
	if summary.Checked != 4 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

// blockingChecker holds every request until its context is cancelled.
type blockingChecker struct{}

func (blockingChecker) CheckURL(ctx context.Context, rawURL string) origin.LinkResult {
	<-ctx.Done()
	return origin.LinkResult{URL: rawURL, Err: ctx.Err()}
}

func TestRunVerify_CancelledWithoutReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	progress := make(chan VerifyProgressMsg) // never read
	done := make(chan verifySummary, 1)
	go func() {
		done <- runVerify(ctx, &fakeChecker{}, nil, catalog.Entries()[:3], 2, progress)
	}()

	select {
	case summary := <-done:
		if summary.Checked != 0 {
			t.Errorf("checked %d links after cancel", summary.Checked)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runVerify blocked on an unread progress channel")
	}
}

func TestRunVerifyTUI_QuitCancelsChecks(t *testing.T) {
	type outcome struct {
		summary verifySummary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		s, err := runVerifyTUI(context.Background(), blockingChecker{}, catalog.Entries()[:2], 2,
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
		)
		done <- outcome{s, err}
	}()

	select {
	case o := <-done:
		if o.err == nil {
			t.Error("expected an error when the view is quit early")
		}
		if o.summary.OK != 0 {
			t.Errorf("summary = %+v", o.summary)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("quitting the progress view did not stop the checks")
	}
}

func TestVerifyModel_Update(t *testing.T) {
	m := initialVerifyModel(nil)

	check := VerifyProgressMsg{Type: "check", Slug: "pokemon-vega", Title: "Pokemon Vega", Kind: linkKindImage}
	updated, _ := m.Update(check)
	m = updated.(VerifyModel)
	if len(m.checking) != 1 {
		t.Fatalf("checking = %v", m.checking)
	}

	result := check
	result.Type = "result"
	result.StatusCode = http.StatusNotFound
	result.URL = "https://whackahack.com/wp-content/uploads/2024/01/pokemon-vega.png"
	updated, _ = m.Update(result)
	m = updated.(VerifyModel)
	if len(m.checking) != 0 {
		t.Errorf("checking after result = %v", m.checking)
	}
	if m.totalChecked != 1 || m.totalFailed != 1 || len(m.failures) != 1 {
		t.Errorf("counters: checked=%d failed=%d failures=%v", m.totalChecked, m.totalFailed, m.failures)
	}

	updated, _ = m.Update(VerifyProgressMsg{Type: "summary", Message: "Checked 1 links"})
	m = updated.(VerifyModel)

	updated, cmd := m.Update(verifyDoneMsg{})
	m = updated.(VerifyModel)
	if !m.done || cmd == nil {
		t.Errorf("done=%v cmd=%v", m.done, cmd)
	}

	view := m.View()
	for _, want := range []string{"Finished", "Failed:", "Pokemon Vega [image] (HTTP 404)", "Checked 1 links"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
