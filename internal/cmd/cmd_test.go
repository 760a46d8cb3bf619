package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "gestures.toml")

	out, err := execute(t, "config", "path", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("output %q does not contain %q", out, cfgPath)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "gestures.toml")

	if _, err := execute(t, "config", "init", "--config", cfgPath); err != nil {
		t.Fatalf("config init: %v", err)
	}

	out, err := execute(t, "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[global.thresholds]") {
		t.Errorf("shown config is missing the thresholds section:\n%s", out)
	}

	// A second init must not clobber the file.
	if _, err := execute(t, "config", "init", "--config", cfgPath); err == nil {
		t.Error("expected config init to refuse overwriting")
	}
}

func TestRun_MissingConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nope.toml")

	if _, err := execute(t, "--config", cfgPath); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
