package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func bundled() options {
	return options{
		catalogDir: filepath.Join("..", "..", "catalog"),
		rod:        "bamboo",
		bait:       "worm",
		zone:       "lake",
		trials:     5000,
		seed:       42,
		atLeast:    "rare",
	}
}

func TestRunToStdout(t *testing.T) {
	var buf bytes.Buffer
	if err := run(bundled(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "rarity,expected,observed,delta\n") || !strings.Contains(out, "fish,name,rarity,count,freq\n") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestRunToDir(t *testing.T) {
	o := bundled()
	o.outDir = filepath.Join(t.TempDir(), "sim")
	if err := run(o, nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"tiers.csv", "fish.csv"} {
		if fi, err := os.Stat(filepath.Join(o.outDir, name)); err != nil || fi.Size() == 0 {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	o := bundled()
	o.zone = "lak"
	if err := run(o, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), `did you mean "lake"`) {
		t.Fatalf("want suggestion, got %v", err)
	}
	o = bundled()
	o.atLeast = "legendary"
	if err := run(o, &bytes.Buffer{}); err == nil {
		t.Fatal("want rarity error")
	}
}
