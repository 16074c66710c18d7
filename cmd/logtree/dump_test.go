package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justinpbarnett/logtree/internal/config"
)

const dumpLog = `V 0.0.2
SR {"name":"Nightly robot"}
ST {"name":"Checkout task"}
SE {"name":"Open Browser","type":"METHOD"}
EA {"name":"url","type":"str","value":"'https://shop'"}
EE {"type":"METHOD","status":"PASS","time_delta":0.5}
AS {"name":"Get Cart","target":"cart","type":"list","value":"[1, 2]"}
C {"kind":"stderr","message":"cart is slow"}
ET {"name":"Checkout task","status":"FAIL","time_delta":1.1}
ER {"name":"Nightly robot","status":"FAIL","time_delta":1.2}
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDumpPrintsTree(t *testing.T) {
	cfg := config.DefaultConfig()
	var out, errOut bytes.Buffer
	if err := runDump(&cfg, []string{"--format", "raw", writeLog(t, dumpLog)}, &out, &errOut); err != nil {
		t.Fatalf("runDump: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Nightly robot  FAIL  1.2s",
		"\n  run Nightly robot [FAIL] (1.2s)\n",
		"\n    task Checkout task [FAIL] (1.1s)\n",
		"\n      Open Browser [PASS] (500ms)\n",
		"\n          url = 'https://shop'\n",
		"\n      cart = [1, 2]\n",
		"console:\n  stderr: cart is slow",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestDumpPrettyValues(t *testing.T) {
	cfg := config.DefaultConfig()
	var out bytes.Buffer
	if err := runDump(&cfg, []string{"--format", "pretty", writeLog(t, dumpLog)}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("runDump: %v", err)
	}
	if !strings.Contains(out.String(), "          [\n              1,") {
		t.Errorf("expected multi-line value block, got:\n%s", out.String())
	}
}

func TestDumpUnsupportedVersion(t *testing.T) {
	cfg := config.DefaultConfig()
	var out bytes.Buffer
	err := runDump(&cfg, []string{writeLog(t, "V 9.0.0\n")}, &out, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
	if !strings.Contains(out.String(), "1 error") {
		t.Errorf("expected the failure counted in the header, got:\n%s", out.String())
	}
}

func TestDumpRejectsBadFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	err := runDump(&cfg, []string{"--format", "fancy", "x.log"}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDumpMissingFile(t *testing.T) {
	cfg := config.DefaultConfig()
	err := runDump(&cfg, []string{filepath.Join(t.TempDir(), "nope.log")}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "opening log") {
		t.Errorf("expected opening error, got %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "logtree dump") {
		t.Errorf("expected usage, got %q", out.String())
	}
}

func TestDumpTagsAndHiddenEntries(t *testing.T) {
	log := `V 0.0.2
SR {"name":"robot"}
ST {"name":"Checkout task","tags":["smoke"]}
TG {"tag":"flaky"}
SE {"name":"secret_helper","type":"METHOD","hide_from_logs":true}
AS {"name":"secret_helper","target":"token","type":"str","value":"'abc'"}
EE {"type":"METHOD","status":"PASS"}
SE {"name":"Click Buy","type":"METHOD"}
EE {"type":"METHOD","status":"PASS"}
ET {"name":"Checkout task","status":"PASS"}
ER {"name":"robot","status":"PASS"}
`
	cfg := config.DefaultConfig()
	var out bytes.Buffer
	if err := runDump(&cfg, []string{"--format", "raw", writeLog(t, log)}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("runDump: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "\n    task Checkout task [PASS]\n        tags: smoke, flaky\n") {
		t.Errorf("expected task tags under the task, got:\n%s", got)
	}
	if strings.Contains(got, "secret_helper") || strings.Contains(got, "token") {
		t.Errorf("expected hidden subtree left out, got:\n%s", got)
	}
	if !strings.Contains(got, "Click Buy [PASS]") {
		t.Errorf("expected visible step, got:\n%s", got)
	}
	if strings.Contains(got, "error") {
		t.Errorf("expected tag line to decode cleanly, got:\n%s", got)
	}
}
