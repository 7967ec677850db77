package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/config"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

var testdata = filepath.Join("..", "x", "java", "testdata")

// resetFlags 恢复所有命令的参数默认值，避免前一次 Execute 的参数泄漏到下一次
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", ".hidden"), 0o755))
	for _, name := range []string{"src/A.java", "src/B.java", "src/notes.txt", "src/.hidden/C.java"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("class X {}"), 0o644))
	}

	a := filepath.Join(dir, "src", "A.java")
	files, err := discoverFiles([]string{filepath.Join(dir, "src"), a}, model.LangJava)
	require.NoError(t, err)
	assert.Equal(t, []string{a, filepath.Join(dir, "src", "B.java")}, files)

	_, err = discoverFiles([]string{filepath.Join(dir, "missing")}, model.LangJava)
	assert.Error(t, err)
}

func TestCheckCommand_Passes(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".rethrow.yaml")
	out, err := execute(t, "", "check", "-c", cfgPath, "-f", "text", filepath.Join(testdata, "Test_1_7_Exceptions.java"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckCommand_FailsFromStdin(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".rethrow.yaml")
	archive, err := os.ReadFile(filepath.Join(testdata, "missing_declaration.txtar"))
	require.NoError(t, err)

	out, err := execute(t, string(archive), "check", "-c", cfgPath, "-f", "jsonl", "-")
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out, `"Kind":"MISSING_THROWS_DECLARATION"`)
	assert.Contains(t, out, `"Type":"com.acme.Missing.SecondException"`)
}

func TestInitCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".rethrow.yaml")
	out, err := execute(t, "", "init", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestHierarchyCommand(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "out.html")
	out, err := execute(t, "", "hierarchy", "-c", filepath.Join(dir, ".rethrow.yaml"), "-o", htmlPath, testdata)
	require.NoError(t, err)
	assert.Contains(t, out, htmlPath)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `n_Test_1_7_Exceptions_FirstException["FirstException"]`)
}

func TestCheckCommand_JSONLToFile(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.jsonl")
	out, err := execute(t, "", "check", "-c", filepath.Join(dir, ".rethrow.yaml"), "-f", "jsonl", "-o", reportPath,
		filepath.Join(testdata, "Test_1_7_Exceptions.java"))
	require.NoError(t, err)
	assert.Empty(t, out, "report goes to the file, not stdout")

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	assert.NotEmpty(t, lines)
	assert.Contains(t, string(report), `"Method":"Test_1_7_Exceptions.rethrowException"`)
	assert.NotContains(t, string(report), "MISSING_THROWS_DECLARATION")

	// 参数在两次执行之间不残留
	out, err = execute(t, "", "check", "-c", filepath.Join(dir, ".rethrow.yaml"), filepath.Join(testdata, "Test_1_7_Exceptions.java"))
	require.NoError(t, err)
	assert.Empty(t, out)
}
