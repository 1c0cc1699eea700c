package sync

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// GitDestination keeps a configurations export committed in a local clone
// and pushes each change to origin.
type GitDestination struct {
	repo   string
	file   string // relative to repo
	branch string
}

// NewGitDestination returns a destination writing file inside repo, an
// existing clone, on branch.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{repo: repo, file: file, branch: branch}
}

func (d *GitDestination) String() string { return "git:" + filepath.Join(d.repo, d.file) }

// Write replaces the export file and, when its content changed, commits with
// a summary of the export header and pushes.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if _, err := d.git(ctx, "checkout", d.branch); err != nil {
		return err
	}
	// The branch may not exist on origin yet.
	_, _ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if _, err := d.git(ctx, "add", d.file); err != nil {
		return err
	}

	// diff --quiet exits 0 when the staged export matches HEAD.
	if _, err := d.git(ctx, "diff", "--cached", "--quiet", "--", d.file); err == nil {
		return nil
	}

	if _, err := d.git(ctx, "commit", "-m", commitMessage(data), "--", d.file); err != nil {
		return err
	}
	if _, err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return err
	}
	return nil
}

// commitMessage summarises the export header on its first line. Exports
// without a readable header get a generic message.
func commitMessage(data []byte) string {
	const fallback = "sync: update configurations export"

	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	var h header
	if err := json.Unmarshal(line, &h); err != nil || h.Type != "header" {
		return fallback
	}

	msg := fmt.Sprintf("sync: %s, %s", plural(h.ConfigurationCount, "configuration"), plural(h.AssetCount, "asset"))
	if !h.UpdatedAt.IsZero() {
		msg += " (updated " + h.UpdatedAt.UTC().Format(time.RFC3339) + ")"
	}
	return msg
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// git runs a git subcommand in the clone and returns its combined output.
// Failures include that output so the sync log shows what git complained about.
func (d *GitDestination) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return out, nil
}
