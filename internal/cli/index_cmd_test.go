package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestIndexCommandRunsOverSampleInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	content := `{"url":"http://root.example/","weight":10,"root":true}
{"url":"http://child.example/","weight":1}
{"from_url":"http://root.example/","target_url":"http://child.example/","anchor_text":"child"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c := &CLI{Logger: log.New(os.Stderr)}
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"index", "--input", path})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIndexCommandRequiresInputFlag(t *testing.T) {
	c := &CLI{Logger: log.New(os.Stderr)}
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"index"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error when --input is omitted")
	}
}

func TestGatherCommandWithNoSeedsDrainsImmediately(t *testing.T) {
	c := &CLI{Logger: log.New(os.Stderr)}
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"gather"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
