package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/config"
	"github.com/iudanet/nvdmirror/internal/iocli"
	"github.com/iudanet/nvdmirror/internal/nvd"
	"github.com/iudanet/nvdmirror/internal/stub"
)

const testAPIKey = "test-key"

func cveItems(n int) []any {
	base := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	items := make([]any, 0, n)
	for i := range n {
		items = append(items, map[string]any{
			"cve": map[string]any{
				"id":           fmt.Sprintf("CVE-2025-%04d", i),
				"lastModified": base.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04:05.000"),
			},
		})
	}
	return items
}

func cpeItems(n int) []any {
	items := make([]any, 0, n)
	for i := range n {
		items = append(items, map[string]any{
			"cpe": map[string]any{
				"cpeName":      fmt.Sprintf("cpe:2.3:a:vendor:product:%d.0:*:*:*:*:*:*:*", i),
				"lastModified": "2025-10-01T00:00:00.000",
			},
		})
	}
	return items
}

func newStubServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	ds := stub.NewDataset()
	ds.Set("cve", cveItems(5))
	ds.Set("cpe", cpeItems(3))

	s := stub.New(stub.Options{Dataset: ds, APIKey: apiKey}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

// writeConfig renders a YAML config pointing every path into a temp dir
func writeConfig(t *testing.T, baseURL, apiKey string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var sb strings.Builder
	fmt.Fprintf(&sb, "nvd:\n  base_url: %s\n", baseURL)
	if apiKey != "" {
		fmt.Fprintf(&sb, "  api_key: %s\n", apiKey)
	}
	sb.WriteString("  pacing_delay: 1ms\n  overload_delay: 1ms\n  retry_delay: 1ms\n  timeout: 5s\n")
	fmt.Fprintf(&sb, "storage:\n  driver: sqlite\n  sqlite_path: %s\n", filepath.Join(dir, "db", "mirror.db"))
	fmt.Fprintf(&sb, "checkpoint:\n  path: %s\n", filepath.Join(dir, "db", "checkpoints.db"))
	fmt.Fprintf(&sb, "archive:\n  backend: fs\n  dir: %s\n", filepath.Join(dir, "archive"))
	sb.WriteString("sync:\n  cve_page_size: 2\n  cpe_page_size: 2\n")
	sb.WriteString("log:\n  level: debug\n  format: json\n")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path, dir
}

// run executes the root command with args and returns its stdout
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(iocli.New(strings.NewReader(input), &out), BuildInfo{Version: "test"})
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func clearAPIKeyEnv(t *testing.T) {
	t.Setenv("NVD_API_KEY", "")
	t.Setenv("NVDMIRROR_NVD_API_KEY", "")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand(iocli.New(strings.NewReader(""), io.Discard), BuildInfo{})

	for _, name := range []string{"sync", "stats", "status", "cleanup", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	syncCmd, _, err := cmd.Find([]string{"sync"})
	require.NoError(t, err)
	assert.NotNil(t, syncCmd.Flags().Lookup("force-full"))
	assert.NotNil(t, syncCmd.Flags().Lookup("entity"))

	cleanupCmd, _, err := cmd.Find([]string{"cleanup"})
	require.NoError(t, err)
	assert.NotNil(t, cleanupCmd.Flags().Lookup("retention"))
	assert.NotNil(t, cleanupCmd.Flags().Lookup("yes"))

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    test")
}

func TestSync_EndToEnd(t *testing.T) {
	clearAPIKeyEnv(t)
	ts := newStubServer(t, testAPIKey)
	cfgPath, dir := writeConfig(t, ts.URL, testAPIKey)

	out, err := run(t, "", "--config", cfgPath, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Synchronization ===")
	assert.Contains(t, out, "written=5")
	assert.Contains(t, out, "written=3")

	// снапшоты полного прохода
	snapshots, err := filepath.Glob(filepath.Join(dir, "archive", "cve_data_FULL_*.json"))
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)

	pages, err := filepath.Glob(filepath.Join(dir, "archive", "raw_api_responses", "cve_data_page_*.json"))
	require.NoError(t, err)
	assert.Len(t, pages, 3)

	out, err = run(t, "", "--config", cfgPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "=== cve_records ===")
	assert.Contains(t, out, "Total records: 5")
	assert.Contains(t, out, "=== cpe_records ===")
	assert.Contains(t, out, "Total records: 3")

	out, err = run(t, "", "--config", cfgPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "cve: none")
	assert.Contains(t, out, "cpe: none")

	// Второй запуск: таблицы не пусты, выполняется инкрементальный проход
	out, err = run(t, "", "--config", cfgPath, "sync", "--entity", "cve")
	require.NoError(t, err)
	assert.Contains(t, out, "incremental")
	assert.NotContains(t, out, "cpe ")
}

func TestSync_ArchiveUnavailable(t *testing.T) {
	clearAPIKeyEnv(t)
	ts := newStubServer(t, testAPIKey)
	cfgPath, dir := writeConfig(t, ts.URL, testAPIKey)

	// archive.dir указывает внутрь обычного файла: каталог создать нельзя даже под root
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	t.Setenv("NVDMIRROR_ARCHIVE_DIR", filepath.Join(blocker, "archive"))

	out, err := run(t, "", "--config", cfgPath, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "written=5")
	assert.Contains(t, out, "written=3")

	out, err = run(t, "", "--config", cfgPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total records: 5")
	assert.Contains(t, out, "Total records: 3")
}

func TestStats_EmptyStore(t *testing.T) {
	clearAPIKeyEnv(t)
	cfgPath, _ := writeConfig(t, "http://127.0.0.1:1", "")

	out, err := run(t, "", "--config", cfgPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total records: 0")
	assert.Contains(t, out, "Last modified: no records")
}

func TestSync_MissingAPIKey(t *testing.T) {
	clearAPIKeyEnv(t)
	ts := newStubServer(t, "")
	cfgPath, _ := writeConfig(t, ts.URL, "")

	_, err := run(t, "", "--config", cfgPath, "sync")
	require.ErrorIs(t, err, nvd.ErrMissingAPIKey)
}

func TestSync_FailureClosesLogFile(t *testing.T) {
	clearAPIKeyEnv(t)
	ts := newStubServer(t, testAPIKey)
	cfgPath, dir := writeConfig(t, ts.URL, "")
	logPath := filepath.Join(dir, "logs", "nvdmirror.log")
	t.Setenv("NVDMIRROR_LOG_FILE", logPath)

	a := &app{
		io: iocli.New(strings.NewReader(""), io.Discard),
		v:  config.New(),
	}
	cmd := newRootCommand(a)
	cmd.SetArgs([]string{"--config", cfgPath, "sync"})
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, nvd.ErrMissingAPIKey)

	// лог-файл закрыт, хотя RunE завершился ошибкой
	assert.Nil(t, a.closeLog)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "NVD API key is not configured")
}

func TestSync_AuthFailure(t *testing.T) {
	clearAPIKeyEnv(t)
	ts := newStubServer(t, testAPIKey)
	cfgPath, _ := writeConfig(t, ts.URL, "wrong-key")

	out, err := run(t, "", "--config", cfgPath, "sync")
	require.ErrorIs(t, err, nvd.ErrAuthFailure)
	assert.Contains(t, out, "aborted")
}

func TestSync_APIKeyFromEnv(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv("NVD_API_KEY", testAPIKey)
	ts := newStubServer(t, testAPIKey)
	cfgPath, _ := writeConfig(t, ts.URL, "")

	_, err := run(t, "", "--config", cfgPath, "sync", "--entity", "cpe")
	require.NoError(t, err)
}

func TestCleanup(t *testing.T) {
	clearAPIKeyEnv(t)
	cfgPath, dir := writeConfig(t, "http://127.0.0.1:1", "")

	pagesDir := filepath.Join(dir, "archive", "raw_api_responses")
	require.NoError(t, os.MkdirAll(pagesDir, 0o755))
	old := filepath.Join(pagesDir, "cve_data_page_0_20200101_000000.json")
	fresh := filepath.Join(pagesDir, "cve_data_page_0_20991231_000000.json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("{}"), 0o600))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	t.Run("declined", func(t *testing.T) {
		out, err := run(t, "n\n", "--config", cfgPath, "cleanup", "--retention", "24h")
		require.NoError(t, err)
		assert.Contains(t, out, "Aborted.")
		assert.FileExists(t, old)
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := run(t, "", "--config", cfgPath, "cleanup", "--retention", "24h", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 1 archived pages")
		assert.NoFileExists(t, old)
		assert.FileExists(t, fresh)
	})
}
