package download

import (
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tubegrab/tubegrab/internal/model"
)

const testWait = 10 * time.Second

// outcomeRecorder collects callback deliveries for assertions.
type outcomeRecorder struct {
	mu       sync.Mutex
	lines    []string
	percents []int
	done     chan model.Outcome
}

func newOutcomeRecorder() *outcomeRecorder {
	return &outcomeRecorder{done: make(chan model.Outcome, 1)}
}

func (r *outcomeRecorder) attach(s *Service) {
	s.SetLineCallback(func(line string) {
		r.mu.Lock()
		r.lines = append(r.lines, line)
		r.mu.Unlock()
	})
	s.SetProgressCallback(func(event model.ProgressEvent) {
		r.mu.Lock()
		r.percents = append(r.percents, event.Percent)
		r.mu.Unlock()
	})
	s.SetFinishedCallback(func(outcome model.Outcome) {
		r.done <- outcome
	})
}

func (r *outcomeRecorder) wait(t *testing.T) model.Outcome {
	t.Helper()
	select {
	case outcome := <-r.done:
		return outcome
	case <-time.After(testWait):
		t.Fatal("Timed out waiting for outcome")
		return model.Outcome{}
	}
}

func (r *outcomeRecorder) lastPercent() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.percents) == 0 {
		return 0, false
	}
	return r.percents[len(r.percents)-1], true
}

func requireTool(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

func testRequest(t *testing.T) *model.DownloadRequest {
	return &model.DownloadRequest{
		SourceURL:       "https://example.com/watch?v=abc",
		Mode:            model.ModeAudio,
		Format:          "mp3",
		BitrateKbps:     "192",
		AudioChannels:   "auto",
		OutputDirectory: t.TempDir(),
	}
}

func TestStartRejectsBlankURL(t *testing.T) {
	service := NewService("yt-dlp", nil)
	req := testRequest(t)
	req.SourceURL = "   "

	if _, err := service.Start(req); err == nil {
		t.Error("Expected error for blank URL, got nil")
	}
	if got := service.State(); got != model.RunStateIdle {
		t.Errorf("Expected state Idle after rejected start, got %s", got)
	}
}

func TestStartRejectsNonHTTPURL(t *testing.T) {
	service := NewService("yt-dlp", nil)
	req := testRequest(t)
	req.SourceURL = "ftp://example.com/file"

	if _, err := service.Start(req); err == nil {
		t.Error("Expected error for non-http URL, got nil")
	}
}

func TestStartWhileRunning(t *testing.T) {
	service := NewService("yt-dlp", nil)
	service.mu.Lock()
	service.state = model.RunStateRunning
	service.mu.Unlock()

	if _, err := service.Start(testRequest(t)); err == nil {
		t.Error("Expected error when a run is active, got nil")
	}
}

func TestCancelWithoutRun(t *testing.T) {
	service := NewService("yt-dlp", nil)
	if err := service.Cancel(); err == nil {
		t.Error("Expected error when nothing is running, got nil")
	}
}

func TestRunSuccessOutcome(t *testing.T) {
	// echo prints the argument vector and exits zero, standing in for a
	// successful tool run.
	service := NewService(requireTool(t, "echo"), nil)
	recorder := newOutcomeRecorder()
	recorder.attach(service)

	runID, err := service.Start(testRequest(t))
	if err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	if !strings.HasPrefix(runID, RunIDPrefix) {
		t.Errorf("Expected run ID with prefix %q, got %q", RunIDPrefix, runID)
	}

	outcome := recorder.wait(t)
	if outcome.Kind != model.OutcomeSuccess {
		t.Fatalf("Expected success, got %s (%s)", outcome.Kind, outcome.Message)
	}
	if last, ok := recorder.lastPercent(); !ok || last != 100 {
		t.Errorf("Expected final percent 100 on success, got %d (reported=%v)", last, ok)
	}
}

func TestRunEchoesCommandLine(t *testing.T) {
	service := NewService(requireTool(t, "echo"), nil)
	recorder := newOutcomeRecorder()
	recorder.attach(service)

	if _, err := service.Start(testRequest(t)); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	recorder.wait(t)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.lines) < 2 || recorder.lines[0] != "Command:" {
		t.Fatalf("Expected command echo as first lines, got %v", recorder.lines)
	}
	if !strings.Contains(recorder.lines[1], FlagNewline) {
		t.Errorf("Expected echoed command to contain %s, got %q", FlagNewline, recorder.lines[1])
	}
}

func TestRunNonzeroExit(t *testing.T) {
	service := NewService(requireTool(t, "false"), nil)
	recorder := newOutcomeRecorder()
	recorder.attach(service)

	if _, err := service.Start(testRequest(t)); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	outcome := recorder.wait(t)
	if outcome.Kind != model.OutcomeFailed {
		t.Fatalf("Expected failure, got %s", outcome.Kind)
	}
	if outcome.ExitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", outcome.ExitCode)
	}
	if !strings.Contains(outcome.Message, "code 1") {
		t.Errorf("Expected exit code in message, got %q", outcome.Message)
	}
}

func TestRunToolNotFound(t *testing.T) {
	service := NewService("definitely-not-a-real-downloader", nil)
	recorder := newOutcomeRecorder()
	recorder.attach(service)

	if _, err := service.Start(testRequest(t)); err != nil {
		t.Fatalf("Expected start to succeed (failure is an outcome), got %v", err)
	}

	outcome := recorder.wait(t)
	if outcome.Kind != model.OutcomeFailed {
		t.Fatalf("Expected failure, got %s", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "Failed to start") {
		t.Errorf("Expected spawn failure message, got %q", outcome.Message)
	}
}

func TestCancelMidRun(t *testing.T) {
	// yes repeats the argument vector forever, standing in for a
	// long-running tool that keeps emitting lines.
	service := NewService(requireTool(t, "yes"), nil)
	recorder := newOutcomeRecorder()

	firstLine := make(chan struct{})
	var once sync.Once
	service.SetLineCallback(func(string) {
		once.Do(func() { close(firstLine) })
	})
	service.SetFinishedCallback(func(outcome model.Outcome) {
		recorder.done <- outcome
	})

	if _, err := service.Start(testRequest(t)); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}

	select {
	case <-firstLine:
	case <-time.After(testWait):
		t.Fatal("Timed out waiting for first output line")
	}

	if err := service.Cancel(); err != nil {
		t.Fatalf("Expected cancel to succeed, got %v", err)
	}

	outcome := recorder.wait(t)
	if outcome.Kind != model.OutcomeCanceled {
		t.Fatalf("Expected canceled outcome, got %s (%s)", outcome.Kind, outcome.Message)
	}
	if outcome.Succeeded() {
		t.Error("Canceled outcome must not count as success")
	}

	// The worker must return to Idle once the process is gone.
	deadline := time.Now().Add(testWait)
	for service.State() != model.RunStateIdle {
		if time.Now().After(deadline) {
			t.Fatal("Service did not return to Idle after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
