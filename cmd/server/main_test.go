package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

func staleAuditFile(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "2026-01-05.txt")
	require.NoError(t, os.WriteFile(p, []byte("{}\n"), 0o644))
	old := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(p, old, old))
	return p
}

func TestRetentionSweep(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REPORT_LOG_DIR", dir)
	stale := staleAuditFile(t, dir)

	retentionSweep(context.Background(), "7")

	_, err := os.Stat(stale + ".gz")
	assert.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRetentionSweepRejectsMalformedValue(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REPORT_LOG_DIR", dir)
	stale := staleAuditFile(t, dir)

	// A value Atoi cannot parse must not run the sweep with a zero window.
	retentionSweep(context.Background(), "7 days")

	_, err := os.Stat(stale)
	assert.NoError(t, err)
	_, err = os.Stat(stale + ".gz")
	assert.True(t, os.IsNotExist(err))
}

func TestRetentionSweepEmptyValueIsNoop(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REPORT_LOG_DIR", dir)
	stale := staleAuditFile(t, dir)

	retentionSweep(context.Background(), "")

	_, err := os.Stat(stale)
	assert.NoError(t, err)
}
