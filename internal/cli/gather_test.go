package cli

import "testing"

func TestSplitSeedURLParsesHostAndPort(t *testing.T) {
	key, rest, err := splitSeedURL("https://example.com/a/b?q=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.Protocol != "https" || key.Hostname != "example.com" || key.Port != 443 {
		t.Fatalf("got %+v", key)
	}
	if rest != "/a/b?q=1" {
		t.Fatalf("expected rest %q, got %q", "/a/b?q=1", rest)
	}
}

func TestSplitSeedURLDefaultsToRootPath(t *testing.T) {
	_, rest, err := splitSeedURL("http://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "/" {
		t.Fatalf("expected default path \"/\", got %q", rest)
	}
}

func TestSplitSeedURLRejectsRelativeURL(t *testing.T) {
	if _, _, err := splitSeedURL("not-a-url"); err == nil {
		t.Fatal("expected an error for a non-absolute URL")
	}
}

func TestSplitSeedURLHonorsExplicitPort(t *testing.T) {
	key, _, err := splitSeedURL("http://example.com:8080/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", key.Port)
	}
}
