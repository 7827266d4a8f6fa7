package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadIndexInputSplitsDocsAndLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	content := `{"url":"http://a.example/","weight":10,"root":true}
{"url":"http://b.example/","weight":5}
{"from_url":"http://a.example/","target_url":"http://b.example/","anchor_text":"b"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	docs, links, err := readIndexInput(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].TargetURL != "http://b.example/" {
		t.Fatalf("got %+v", links[0])
	}
}

func TestReadIndexInputSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	content := "{\"url\":\"http://a.example/\"}\n\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	docs, _, err := readIndexInput(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
}

func TestReadIndexInputRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	if err := os.WriteFile(path, []byte("not json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := readIndexInput(path); err == nil {
		t.Fatal("expected an error for malformed input")
	}
}

func TestReadIndexInputMissingFile(t *testing.T) {
	if _, _, err := readIndexInput("/nonexistent/path.ndjson"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
