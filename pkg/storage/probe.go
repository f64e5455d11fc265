package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// MediaProber derives media metadata from a local file using the ffprobe
// CLI tool.
type MediaProber struct {
	Binary  string
	Run     CommandRunner
	Timeout time.Duration
}

// NewMediaProber constructs a prober that shells out to ffprobe.
func NewMediaProber(binary string, timeout time.Duration) *MediaProber {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MediaProber{
		Binary:  binary,
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Duration returns the media duration in seconds for the given local file.
func (p *MediaProber) Duration(ctx context.Context, localPath string) (float64, error) {
	if p.Run == nil {
		p.Run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := p.Run(execCtx, p.Binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		localPath,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", localPath, err)
	}

	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return 0, fmt.Errorf("parse ffprobe response: %w", err)
	}

	seconds, err := strconv.ParseFloat(payload.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", payload.Format.Duration, err)
	}

	return seconds, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
