package exiftool

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Executor abstracts command execution for testability. Implementations
// must deliver every stdout and stderr line to onLine, one call at a time.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps exiftool CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an exiftool client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Version reports the installed exiftool version.
func (c *Client) Version(ctx context.Context) (string, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var version string
	err := c.exec.Run(runCtx, c.binary, []string{"-ver"}, func(line string) {
		if version == "" {
			version = strings.TrimSpace(line)
		}
	})
	if err != nil {
		return "", fmt.Errorf("exiftool version: %w", err)
	}
	if version == "" {
		return "", errors.New("exiftool version: no output")
	}
	return version, nil
}

// ReadDescription reads the description metadata of a file. The second
// return value reports whether a non-empty description is present. The tag
// key exiftool reports can vary by group, so every key except SourceFile is
// considered.
func (c *Client) ReadDescription(ctx context.Context, path string) (string, bool, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var buf strings.Builder
	var toolErr string
	err := c.exec.Run(runCtx, c.binary, []string{"-j", "-Description", path}, func(line string) {
		trimmed := strings.TrimSpace(line)
		// Warnings and errors arrive on stderr but share the callback.
		// They must not leak into the JSON payload.
		if strings.HasPrefix(trimmed, "Warning:") {
			return
		}
		if strings.HasPrefix(trimmed, "Error:") {
			if toolErr == "" {
				toolErr = trimmed
			}
			return
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	})
	if err != nil {
		return "", false, fmt.Errorf("exiftool read %s: %w", path, err)
	}
	if toolErr != "" {
		return "", false, fmt.Errorf("exiftool read %s: %s", path, toolErr)
	}

	var payload []map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &payload); err != nil {
		return "", false, fmt.Errorf("exiftool read %s: parse output: %w", path, err)
	}
	if len(payload) == 0 {
		return "", false, nil
	}

	for key, value := range payload[0] {
		if key == "SourceFile" {
			continue
		}
		text := fmt.Sprint(value)
		if text != "" {
			return text, true, nil
		}
	}
	return "", false, nil
}

// WriteStatus classifies what a write request did.
type WriteStatus string

const (
	// StatusWritten means exiftool wrote the description.
	StatusWritten WriteStatus = "written"
	// StatusSkipped means the target was left untouched because of an
	// existing description.
	StatusSkipped WriteStatus = "skipped"
)

// WriteRequest describes one description write.
type WriteRequest struct {
	// Target is the file to update, or the sidecar to create.
	Target string
	// Anchor is the raw file a new sidecar derives its metadata from.
	// Required when CreateSidecar is set.
	Anchor string
	// CreateSidecar creates Target from Anchor instead of updating Target.
	CreateSidecar bool
	Description   string
	// OverwriteDescription replaces an existing, different description.
	OverwriteDescription bool
	// OverwriteOriginal lets exiftool modify files in place instead of
	// keeping "_original" backups.
	OverwriteOriginal bool
}

// WriteResult reports what happened to one request.
type WriteResult struct {
	Status WriteStatus
	Detail string
}

// Write applies one request. Existing descriptions are probed first: a
// matching description is a no-op, a different one is skipped unless
// overwriting is requested. For sidecar creation the probe inspects the
// anchor, and the write fails if a sidecar appeared since the catalog scan.
func (c *Client) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	if strings.TrimSpace(req.Target) == "" {
		return WriteResult{}, errors.New("write target required")
	}
	if req.CreateSidecar && strings.TrimSpace(req.Anchor) == "" {
		return WriteResult{}, errors.New("sidecar creation requires an anchor file")
	}

	probePath := req.Target
	if req.CreateSidecar {
		if found, exists := sidecarVariantExists(req.Target); exists {
			return WriteResult{}, fmt.Errorf("sidecar %s appeared after the scan", found)
		}
		probePath = req.Anchor
	}

	if _, err := os.Stat(probePath); err == nil {
		existing, present, err := c.ReadDescription(ctx, probePath)
		if err != nil {
			return WriteResult{}, err
		}
		if present {
			switch {
			case existing == req.Description:
				return WriteResult{Status: StatusSkipped, Detail: "matching description already exists"}, nil
			case !req.OverwriteDescription:
				return WriteResult{Status: StatusSkipped, Detail: "nonmatching description already exists"}, nil
			}
		}
	}

	args := []string{"-Description=" + req.Description}
	if req.OverwriteOriginal {
		args = append(args, "-overwrite_original")
	}
	if req.CreateSidecar {
		args = append(args, "-o", req.Target, req.Anchor)
	} else {
		args = append(args, req.Target)
	}

	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var counts summaryCounts
	var toolErr string
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error:") && toolErr == "" {
			toolErr = trimmed
		}
		counts.observe(line)
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("exiftool write %s: %w", req.Target, err)
	}
	if toolErr != "" {
		return WriteResult{}, fmt.Errorf("exiftool write %s: %s", req.Target, toolErr)
	}
	if counts.failed > 0 {
		return WriteResult{}, fmt.Errorf("exiftool write %s: %d file(s) failed", req.Target, counts.failed)
	}
	if counts.updated+counts.created == 0 {
		return WriteResult{}, fmt.Errorf("exiftool write %s: no files written", req.Target)
	}

	detail := "description written"
	if req.CreateSidecar {
		detail = "sidecar created"
	}
	return WriteResult{Status: StatusWritten, Detail: detail}, nil
}

func (c *Client) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// sidecarVariantExists checks the target path and its uppercase-extension
// variant. Sidecars written by other tools sometimes carry .XMP.
func sidecarVariantExists(target string) (string, bool) {
	candidates := []string{target}
	if strings.HasSuffix(target, ".xmp") {
		candidates = append(candidates, strings.TrimSuffix(target, ".xmp")+".XMP")
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// summaryCounts accumulates exiftool's trailing summary lines, such as
// "1 image files updated" or "1 output files created".
type summaryCounts struct {
	updated int
	created int
	failed  int
}

func (s *summaryCounts) observe(line string) {
	line = strings.TrimSpace(line)
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return
	}
	rest := fields[1]
	switch {
	case strings.HasSuffix(rest, "files updated"):
		s.updated += n
	case strings.HasSuffix(rest, "files created"):
		s.created += n
	case strings.Contains(rest, "due to errors"):
		s.failed += n
	}
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	// Both pipes feed the same callback. The mutex keeps callback state
	// single-threaded so callers can accumulate without their own locking.
	var mu sync.Mutex
	forward := func(line string) {
		if onLine == nil {
			fmt.Fprintln(os.Stderr, line)
			return
		}
		mu.Lock()
		onLine(line)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	scanErrs := make(chan error, 2)
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			scanErrs <- err
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()
	close(scanErrs)

	if err := <-scanErrs; err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
