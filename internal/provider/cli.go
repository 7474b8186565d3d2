package provider

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/valksor/go-wachter/internal/locate"
)

// RunCLI resolves a tool through the locator and runs it with the merged
// PATH, returning stdout. Shared by the CLI-backed provider variants.
func RunCLI(ctx context.Context, locator *locate.Locator, tool string, env map[string]string, args ...string) (string, error) {
	res, err := locator.Locate(ctx, tool)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", tool, err)
	}

	cmd := exec.CommandContext(ctx, res.Path, args...)
	cmd.Env = mergedEnv(locator, env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s exited with code %d: %s", tool, exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("%s: %s", tool, msg)
	}

	return stdout.String(), nil
}

func mergedEnv(locator *locate.Locator, extra map[string]string) []string {
	env := os.Environ()
	merged := locator.MergedPath()

	replaced := false
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + merged
			replaced = true
			break
		}
	}
	if !replaced {
		env = append(env, "PATH="+merged)
	}

	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
