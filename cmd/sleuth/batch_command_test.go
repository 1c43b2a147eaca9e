package main

import (
	"path/filepath"
	"testing"
)

func TestBatchVerboseWritesDebugLog(t *testing.T) {
	env := setupCLITestEnv(t)
	namesPath := writeNamesFile(t, env, "Acme Holdings")
	mainLog := filepath.Join(env.cfg.Paths.LogDir, "sleuth.log")

	out, _, err := runCLI(t, []string{"batch", namesPath, "--captures", env.capturesDir}, env.configPath)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	requireContains(t, out, "Processed 1 lookups")

	plain := readFile(t, mainLog)
	requireContains(t, plain, "run completed")
	requireNotContains(t, plain, "lookup enriched")

	out, _, err = runCLI(t, []string{"batch", namesPath, "--captures", env.capturesDir, "--verbose"}, env.configPath)
	if err != nil {
		t.Fatalf("batch --verbose: %v", err)
	}
	requireContains(t, out, "Processed 1 lookups")
	requireContains(t, readFile(t, mainLog), "lookup enriched")
}
