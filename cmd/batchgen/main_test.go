package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_GeneratesAcrossFiles(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "error")
	dir := t.TempDir()
	a := writeFile(t, dir, "exchanges.topo", "exchanges {\n  emails { kind = topic }\n}\n")
	b := writeFile(t, dir, "queues.topo", "queues {\n  \"email-queue\" { bound_exchange = emails, routing_key = \"emails.send\" }\n}\n")
	out := filepath.Join(dir, "topology_gen.go")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-pkg", "topo", "-o", out, a, b}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}

	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"// Code generated by batchgen from exchanges.topo, queues.topo. DO NOT EDIT.",
		"func ExchangeEmails() topology.Exchange",
		"func QueueEmailQueue() topology.Queue",
	} {
		if !bytes.Contains(src, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_Stdout(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "error")
	p := writeFile(t, t.TempDir(), "a.topo", "queues { jobs { } }")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{p}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "func QueueJobs() topology.Queue") {
		t.Errorf("stdout:\n%s", stdout.String())
	}
}

func TestRun_DiagnosticsExitOne(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "error")
	dir := t.TempDir()
	p := writeFile(t, dir, "bad.topo", "queues {\n  q { bound_exchange = missing, routing_key = \"k\" }\n  q { }\n}\n")
	out := filepath.Join(dir, "gen.go")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-o", out, p}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	msg := stderr.String()
	for _, want := range []string{"unknown exchange", "already declared", "2 errors"} {
		if !strings.Contains(msg, want) {
			t.Errorf("stderr missing %q:\n%s", want, msg)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output may be written when diagnostics exist")
	}
}

func TestRun_Check(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "error")
	p := writeFile(t, t.TempDir(), "a.topo", "exchanges { logs { kind = fanout } }")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-check", p}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("-check wrote output:\n%s", stdout.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if code := run(context.Background(), []string{"/does/not/exist.topo"}, &stdout, &stderr); code != 1 {
		t.Fatalf("missing file: exit %d, want 1", code)
	}
}
