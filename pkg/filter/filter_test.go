package filter

import (
	"context"
	"testing"
)

func mustCompile(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Compile(src, DefaultThresholds())
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return prog
}

// S1: a rule that accepts only root-path URLs.
func TestFilterAcceptsRootURL(t *testing.T) {
	prog := mustCompile(t, `
		if (url =~ "^http://[^/]*/$") {
			accept "root";
		}
		reject "non-root";
	`)

	cases := []struct {
		url  string
		want VerdictKind
	}{
		{"http://example.com/", VerdictAccept},
		{"http://example.com/page.html", VerdictReject},
	}

	for _, c := range cases {
		args := NewArgs(prog, MapBinder{"url": Str(c.url)})
		v, err := Run(context.Background(), prog, args)
		if err != nil {
			t.Fatalf("Run(%q): %v", c.url, err)
		}
		if v.Kind != c.want {
			t.Errorf("url %q: got verdict %v, want %v", c.url, v.Kind, c.want)
		}
	}
}

// S2: three-valued logic — a missing `host` field reads as undefined, so
// the defined(host) guard is false and the program must fall through to
// the final reject without mis-accepting.
func TestFilterThreeValuedLogic(t *testing.T) {
	prog := mustCompile(t, `
		if (defined(host) && host == "x") {
			accept;
		}
		reject;
	`)

	t.Run("host defined and matches", func(t *testing.T) {
		args := NewArgs(prog, MapBinder{"host": Str("x")})
		v, err := Run(context.Background(), prog, args)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind != VerdictAccept {
			t.Errorf("got %v, want accept", v.Kind)
		}
	})

	t.Run("host defined and differs", func(t *testing.T) {
		args := NewArgs(prog, MapBinder{"host": Str("y")})
		v, err := Run(context.Background(), prog, args)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind != VerdictReject {
			t.Errorf("got %v, want reject", v.Kind)
		}
	})

	t.Run("host undefined", func(t *testing.T) {
		args := NewArgs(prog, MapBinder{})
		args.Raw = MapBinder{} // no "host" key: GetField returns an undefined value
		v, err := Run(context.Background(), prog, args)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind != VerdictReject {
			t.Errorf("got %v, want reject (falls through, not mis-accept)", v.Kind)
		}
	})
}

func TestFilterMissingVerdictIsError(t *testing.T) {
	prog := mustCompile(t, `log "no terminal statement here";`)
	args := NewArgs(prog, MapBinder{})
	v, err := Run(context.Background(), prog, args)
	if err == nil {
		t.Fatal("expected error for missing verdict")
	}
	if v.Kind != VerdictMissing {
		t.Errorf("got %v, want VerdictMissing", v.Kind)
	}
}

func TestFilterConcatTreatsUndefAsPrintable(t *testing.T) {
	prog := mustCompile(t, `
		accept "host=" . host;
	`)
	args := NewArgs(prog, MapBinder{})
	v, err := Run(context.Background(), prog, args)
	if err != nil {
		t.Fatal(err)
	}
	want := "host=<undefined string>"
	if v.Message != want {
		t.Errorf("got message %q, want %q", v.Message, want)
	}
}

func TestFilterSwitchExecutesAllMatchingCasesInOrder(t *testing.T) {
	prog := mustCompile(t, `
		local int order;
		switch (code) {
		case >= 100: add order = order * 10 + 1;
		case >= 200: add order = order * 10 + 2;
		case >= 900: add order = order * 10 + 9;
		}
		accept order;
	`)
	args := NewArgs(prog, MapBinder{"code": Int64(250)})
	v, err := Run(context.Background(), prog, args)
	if err != nil {
		t.Fatal(err)
	}
	if v.Message != "12" {
		t.Errorf("got %q, want %q (both matching cases fire in source order)", v.Message, "12")
	}
}

func TestPrunesConstantFoldedDeadBranch(t *testing.T) {
	cmds, err := Parse(`
		if (1 == 1) {
			accept "always";
		} else {
			reject "never";
		}
	`)
	if err != nil {
		t.Fatal(err)
	}
	pruned := Prune(cmds.Commands)
	if len(pruned) != 1 {
		t.Fatalf("expected constant-true if to collapse to a single statement, got %d", len(pruned))
	}
	if _, ok := pruned[0].(*AcceptStmt); !ok {
		t.Fatalf("expected AcceptStmt after folding, got %T", pruned[0])
	}
}

func TestCompileRegexCaseInsensitive(t *testing.T) {
	prog := mustCompile(t, `
		if (host =~ "EXAMPLE"i) {
			accept;
		}
		reject;
	`)
	args := NewArgs(prog, MapBinder{"host": Str("www.example.com")})
	v, err := Run(context.Background(), prog, args)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != VerdictAccept {
		t.Errorf("got %v, want accept (case-insensitive match)", v.Kind)
	}
}
