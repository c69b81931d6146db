package download

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tubegrab/tubegrab/internal/model"
)

// Scanner sizing for long yt-dlp output lines
const (
	scannerInitialBuffer = 64 * 1024
	scannerMaxBuffer     = 1024 * 1024
)

// RunIDPrefix prefixes every generated run identifier
const RunIDPrefix = "run-"

// Service launches yt-dlp for one request at a time and streams its merged
// output back through callbacks. Exactly one worker goroutine may be active;
// the process handle and the run bookkeeping are owned by that goroutine for
// its lifetime. The interactive layer communicates inward through exactly
// one mutable thing: the cancel flag.
type Service struct {
	toolPath string
	logger   *slog.Logger

	mu    sync.Mutex
	state model.RunState

	// cancel is polled once per consumed output line, so cancellation
	// latency is bounded by how long the tool takes to emit its next line.
	cancel atomic.Bool

	onLine     func(string)
	onProgress func(model.ProgressEvent)
	onFinished func(model.Outcome)
}

// NewService creates a download service invoking the given yt-dlp binary.
func NewService(toolPath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		toolPath: toolPath,
		logger:   logger,
		state:    model.RunStateIdle,
	}
}

// SetLineCallback sets the callback receiving every output line verbatim.
func (s *Service) SetLineCallback(callback func(string)) {
	s.onLine = callback
}

// SetProgressCallback sets the callback receiving percent-bearing events.
func (s *Service) SetProgressCallback(callback func(model.ProgressEvent)) {
	s.onProgress = callback
}

// SetFinishedCallback sets the callback receiving the terminal outcome.
func (s *Service) SetFinishedCallback(callback func(model.Outcome)) {
	s.onFinished = callback
}

// State returns the current run state.
func (s *Service) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start validates the request and launches the worker goroutine. Validation
// failures are returned synchronously and never spawn a process. Only one
// run may be active; starting while busy is an error.
func (s *Service) Start(req *model.DownloadRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.state != model.RunStateIdle {
		s.mu.Unlock()
		return "", fmt.Errorf("a download is already running")
	}
	s.state = model.RunStateRunning
	s.cancel.Store(false)
	s.mu.Unlock()

	runID := generateRunID()
	s.logger.Info("starting download",
		"run_id", runID,
		"url", req.SourceURL,
		"mode", string(req.Mode))

	go s.run(req, runID)
	return runID, nil
}

// Cancel requests cooperative cancellation of the active run. The worker
// observes the flag on its next consumed line and terminates the process;
// there is no forced kill on a timeout.
func (s *Service) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsActive() {
		return fmt.Errorf("no download is running")
	}
	s.state = model.RunStateCanceling
	s.cancel.Store(true)
	return nil
}

func (s *Service) run(req *model.DownloadRequest, runID string) {
	outcome := s.execute(req, runID)

	s.mu.Lock()
	s.state = model.RunStateIdle
	s.mu.Unlock()

	s.logger.Info("download finished",
		"run_id", runID,
		"outcome", string(outcome.Kind),
		"message", outcome.Message)
	s.notifyFinished(outcome)
}

func (s *Service) execute(req *model.DownloadRequest, runID string) model.Outcome {
	if err := os.MkdirAll(req.OutputDirectory, 0o755); err != nil {
		return model.Outcome{
			Kind:    model.OutcomeFailed,
			Message: fmt.Sprintf("Cannot create output folder: %v", err),
		}
	}

	args := BuildArgs(req)
	s.notifyLine("Command:")
	s.notifyLine(FormatCommandLine(s.toolPath, args))

	cmd := exec.Command(s.toolPath, args...)

	// yt-dlp interleaves status across stdout and stderr; merge them into
	// one line-oriented stream so a single scan loop sees everything.
	pipeReader, pipeWriter := io.Pipe()
	cmd.Stdout = pipeWriter
	cmd.Stderr = pipeWriter

	if err := cmd.Start(); err != nil {
		pipeWriter.Close()
		pipeReader.Close()
		return model.Outcome{
			Kind:    model.OutcomeFailed,
			Message: fmt.Sprintf("Failed to start yt-dlp: %v", err),
		}
	}

	waitResult := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pipeWriter.Close()
		waitResult <- err
	}()

	scanner := bufio.NewScanner(pipeReader)
	scanner.Buffer(make([]byte, scannerInitialBuffer), scannerMaxBuffer)

	canceled := false
	for scanner.Scan() {
		if s.cancel.Load() {
			canceled = true
			if cmd.Process != nil {
				if err := cmd.Process.Kill(); err != nil {
					s.logger.Warn("failed to terminate process", "run_id", runID, "error", err)
				}
			}
			break
		}

		line := scanner.Text()
		s.notifyLine(line)

		event := ParseProgressLine(line)
		if event.HasPercent {
			s.notifyProgress(event)
		}
	}
	readErr := scanner.Err()

	// Unblock the process's remaining writes so Wait can return.
	pipeReader.Close()
	waitErr := <-waitResult

	if canceled || s.cancel.Load() {
		return model.Outcome{Kind: model.OutcomeCanceled, Message: "Download canceled."}
	}
	if readErr != nil {
		return model.Outcome{
			Kind:    model.OutcomeFailed,
			Message: fmt.Sprintf("Error during download: %v", readErr),
		}
	}
	if waitErr != nil {
		outcome := model.Outcome{Kind: model.OutcomeFailed}
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			outcome.ExitCode = exitErr.ExitCode()
			outcome.Message = fmt.Sprintf("yt-dlp exited with code %d.", exitErr.ExitCode())
		} else {
			outcome.Message = fmt.Sprintf("Error during download: %v", waitErr)
		}
		return outcome
	}

	// The tool does not always print a final 100% line before exiting.
	s.notifyProgress(model.ProgressEvent{Percent: 100, HasPercent: true})
	return model.Outcome{Kind: model.OutcomeSuccess, Message: "Download completed."}
}

// notifyLine calls the line callback if set
func (s *Service) notifyLine(line string) {
	if s.onLine != nil {
		s.onLine(line)
	}
}

// notifyProgress calls the progress callback if set
func (s *Service) notifyProgress(event model.ProgressEvent) {
	if s.onProgress != nil {
		s.onProgress(event)
	}
}

// notifyFinished calls the finished callback if set
func (s *Service) notifyFinished(outcome model.Outcome) {
	if s.onFinished != nil {
		s.onFinished(outcome)
	}
}

// generateRunID generates a unique run ID using UUID v7 for better
// uniqueness and time ordering
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
