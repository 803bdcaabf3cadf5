package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client runs the git binary in a working directory.
type Client struct {
	dir string
}

// NewClient creates a git client rooted at dir. An empty dir means the
// process working directory.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

// GetRepoRoot returns the repository root directory.
// Returns an error if not in a git repository or git is not installed.
func (c *Client) GetRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = c.dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository")
	}
	return strings.TrimSpace(string(out)), nil
}
