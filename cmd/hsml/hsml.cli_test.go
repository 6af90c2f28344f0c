package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-hsml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test data constants
const (
	testValidSource   = "html\n  body\n    h1 Hello\n"
	testValidOutput   = "<html><body><h1>Hello</h1></body></html>"
	testInvalidSource = "div#a#b\n"
)

// cliResult captures one CLI invocation
type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// setupTree writes source files into a temp directory
func setupTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	res := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, res.code)
	assert.Contains(t, res.stdout, CLIName)
	assert.Contains(t, res.stdout, CmdNameCompile)
	assert.Contains(t, res.stdout, CmdNameStore)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"render"}},
		{name: "unknown flag", args: []string{CmdNameCompile, "--fast"}},
		{name: "too many args", args: []string{CmdNameCompile, "a", "b"}},
		{name: "parse without file", args: []string{CmdNameParse}},
		{name: "parse bad format", args: []string{CmdNameParse, "-", "--format", "xml"}},
		{name: "version bad format", args: []string{CmdNameVersion, "-F", "xml"}},
		{name: "store save missing file arg", args: []string{CmdNameStore, CmdNameSave, "nav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, ExitCodeUsageError, res.code)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

// ==================== compile tests ====================

func TestCompile_Stdin(t *testing.T) {
	res := runCLI(t, testValidSource, CmdNameCompile, InputSourceStdin)

	assert.Equal(t, ExitCodeSuccess, res.code)
	assert.Equal(t, testValidOutput, res.stdout)
}

func TestCompile_StdinParseFailure(t *testing.T) {
	res := runCLI(t, testInvalidSource, CmdNameCompile, InputSourceStdin)

	assert.Equal(t, ExitCodeParseFailure, res.code)
	assert.Contains(t, res.stderr, FmtStdinName+":1:6: ")
	assert.Empty(t, res.stdout)
}

func TestParseFailure_ReportedOnce(t *testing.T) {
	dir := setupTree(t, map[string]string{"bad.hsml": testInvalidSource})
	in := filepath.Join(dir, "bad.hsml")

	tests := []struct {
		name   string
		stdin  string
		args   []string
		output func(res cliResult) string
		line   string
	}{
		{
			name:   "compile file",
			args:   []string{CmdNameCompile, in},
			output: func(res cliResult) string { return res.stderr },
			line:   in + ":1:6: ",
		},
		{
			name:   "compile stdin",
			stdin:  testInvalidSource,
			args:   []string{CmdNameCompile, InputSourceStdin},
			output: func(res cliResult) string { return res.stderr },
			line:   FmtStdinName + ":1:6: ",
		},
		{
			name:   "parse",
			args:   []string{CmdNameParse, in},
			output: func(res cliResult) string { return res.stderr },
			line:   in + ":1:6: ",
		},
		{
			name:   "check file",
			args:   []string{CmdNameCheck, in},
			output: func(res cliResult) string { return res.stdout },
			line:   in + ":1:6: ",
		},
		{
			name:   "store save",
			stdin:  testInvalidSource,
			args:   []string{CmdNameStore, CmdNameSave, "broken", InputSourceStdin},
			output: func(res cliResult) string { return res.stderr },
			line:   FmtStdinName + ":1:6: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, ExitCodeParseFailure, res.code)
			assert.Equal(t, 1, strings.Count(tt.output(res), tt.line))
			assert.NotContains(t, res.stderr, CLIName+": ")
			assert.NotContains(t, res.stderr, hsml.ErrMsgParseFailed)
		})
	}
}

func TestCompile_File(t *testing.T) {
	dir := setupTree(t, map[string]string{"index.hsml": testValidSource})
	in := filepath.Join(dir, "index.hsml")

	t.Run("next to source", func(t *testing.T) {
		res := runCLI(t, "", CmdNameCompile, in)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Equal(t, testValidOutput, readFile(t, filepath.Join(dir, "index.html")))
		assert.Contains(t, res.stdout, filepath.Join(dir, "index.html"))
	})

	t.Run("explicit output", func(t *testing.T) {
		out := filepath.Join(dir, "public", "home.html")
		res := runCLI(t, "", CmdNameCompile, in, "-o", out)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Equal(t, testValidOutput, readFile(t, out))
	})

	t.Run("stdout", func(t *testing.T) {
		res := runCLI(t, "", CmdNameCompile, in, "-o", OutputStdout)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Equal(t, testValidOutput, res.stdout)
	})
}

func TestCompile_MissingPath(t *testing.T) {
	res := runCLI(t, "", CmdNameCompile, filepath.Join(t.TempDir(), "absent.hsml"))

	assert.Equal(t, ExitCodeInputError, res.code)
	assert.Contains(t, res.stderr, ErrMsgStatFailed)
}

func TestCompile_Directory(t *testing.T) {
	src := setupTree(t, map[string]string{
		"index.hsml":       testValidSource,
		"blog/post.hsml":   "article\n  p Post\n",
		"blog/broken.hsml": "ul\n  li\n   li\n",
	})
	out := t.TempDir()

	res := runCLI(t, "", CmdNameCompile, src, "-o", out)

	assert.Equal(t, ExitCodeParseFailure, res.code)
	assert.Equal(t, testValidOutput, readFile(t, filepath.Join(out, "index.html")))
	assert.Equal(t, "<article><p>Post</p></article>", readFile(t, filepath.Join(out, "blog", "post.html")))
	assert.NoFileExists(t, filepath.Join(out, "blog", "broken.html"))
	assert.Contains(t, res.stdout, "2 file(s) compiled, 1 failed")
	assert.Contains(t, res.stderr, filepath.Join(src, "blog", "broken.hsml")+":3:")
}

func TestCompile_DirectoryToStdout(t *testing.T) {
	res := runCLI(t, "", CmdNameCompile, t.TempDir(), "-o", OutputStdout)

	assert.Equal(t, ExitCodeUsageError, res.code)
	assert.Contains(t, res.stderr, ErrMsgDirOutputStdout)
}

func TestCompile_ProjectConfig(t *testing.T) {
	root := setupTree(t, map[string]string{
		"views/index.hsml": "p Home",
	})
	config := filepath.Join(root, "hsml.yaml")
	content := "source: " + filepath.Join(root, "views") + "\n" +
		"output: " + filepath.Join(root, "public") + "\n" +
		"output_extension: .htm\n" +
		"log_level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(content), FilePermissions))

	res := runCLI(t, "", CmdNameCompile, "--config", config)

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "<p>Home</p>", readFile(t, filepath.Join(root, "public", "index.htm")))
	assert.Empty(t, res.stderr, "error level suppresses per-file logs")
}

func TestCompile_BadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		res := runCLI(t, "", CmdNameCompile, "--config", filepath.Join(t.TempDir(), "absent.yaml"), InputSourceStdin)
		assert.Equal(t, ExitCodeInputError, res.code)
	})

	t.Run("invalid value", func(t *testing.T) {
		config := filepath.Join(t.TempDir(), "hsml.yaml")
		require.NoError(t, os.WriteFile(config, []byte("concurrency: 0\n"), FilePermissions))
		res := runCLI(t, "p", CmdNameCompile, "--config", config, InputSourceStdin)
		assert.Equal(t, ExitCodeInputError, res.code)
	})
}

func TestCompile_VerboseLogging(t *testing.T) {
	dir := setupTree(t, map[string]string{"a.hsml": "p A"})

	res := runCLI(t, "", CmdNameCompile, dir, "-v")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "DEBUG")
	assert.Contains(t, res.stderr, "file compiled")
}

// ==================== parse tests ====================

func TestParse_Formats(t *testing.T) {
	dir := setupTree(t, map[string]string{"page.hsml": "a#home(href=\"/\") Home\n"})
	path := filepath.Join(dir, "page.hsml")

	t.Run("json default", func(t *testing.T) {
		res := runCLI(t, "", CmdNameParse, path)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		var tree map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &tree))
		assert.Equal(t, "root", tree["type"])
		children := tree["children"].([]interface{})
		require.Len(t, children, 1)
		assert.Equal(t, "home", children[0].(map[string]interface{})["id"])
	})

	t.Run("yaml", func(t *testing.T) {
		res := runCLI(t, "", CmdNameParse, path, "--format", OutputFormatYAML)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		var tree map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &tree))
		assert.Equal(t, "root", tree["type"])
	})

	t.Run("stdin", func(t *testing.T) {
		res := runCLI(t, "br", CmdNameParse, InputSourceStdin)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, `"tag": "br"`)
	})
}

func TestParse_Failures(t *testing.T) {
	t.Run("parse failure", func(t *testing.T) {
		res := runCLI(t, testInvalidSource, CmdNameParse, InputSourceStdin)
		assert.Equal(t, ExitCodeParseFailure, res.code)
		assert.Empty(t, res.stdout)
	})

	t.Run("missing file", func(t *testing.T) {
		res := runCLI(t, "", CmdNameParse, filepath.Join(t.TempDir(), "absent.hsml"))
		assert.Equal(t, ExitCodeInputError, res.code)
		assert.Contains(t, res.stderr, ErrMsgReadFileFailed)
	})
}

// ==================== check tests ====================

func TestCheck_Directory(t *testing.T) {
	dir := setupTree(t, map[string]string{
		"a.hsml":     "p A",
		"b.hsml":     "p(x=y)",
		"sub/c.hsml": testInvalidSource,
	})

	res := runCLI(t, "", CmdNameCheck, dir)

	assert.Equal(t, ExitCodeParseFailure, res.code)
	assert.Contains(t, res.stdout, filepath.Join(dir, "b.hsml")+":1:")
	assert.Contains(t, res.stdout, filepath.Join(dir, "sub", "c.hsml")+":1:6: ")
	assert.Contains(t, res.stdout, "3 file(s) checked, 2 failed")
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
}

func TestCheck_Valid(t *testing.T) {
	dir := setupTree(t, map[string]string{"a.hsml": "p A", "b.hsml": "ul\n  li B"})

	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "directory", args: []string{CmdNameCheck, dir}},
		{name: "file", args: []string{CmdNameCheck, filepath.Join(dir, "a.hsml")}},
		{name: "stdin", args: []string{CmdNameCheck, InputSourceStdin}, stdin: "p ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, ExitCodeSuccess, res.code, res.stderr)
			assert.Contains(t, res.stdout, " 0 failed")
		})
	}
}

func TestCheck_StdinFailure(t *testing.T) {
	res := runCLI(t, testInvalidSource, CmdNameCheck, InputSourceStdin)

	assert.Equal(t, ExitCodeParseFailure, res.code)
	assert.Contains(t, res.stdout, FmtStdinName+":1:6: ")
}

// ==================== store tests ====================

func TestStore_FilesystemRoundTrip(t *testing.T) {
	store := t.TempDir()
	src := setupTree(t, map[string]string{
		"nav1.hsml": "nav\n  a(href=\"/\") Home\n",
		"nav2.hsml": "nav\n  a(href=\"/blog\") Blog\n",
	})
	storeArgs := func(args ...string) []string {
		return append([]string{CmdNameStore, "--driver", "filesystem", "--dsn", store}, args...)
	}

	res := runCLI(t, "", storeArgs(CmdNameSave, "nav", filepath.Join(src, "nav1.hsml"), "--tag", "layout")...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "saved nav v1 (doc_")

	res = runCLI(t, "", storeArgs(CmdNameSave, "nav", filepath.Join(src, "nav2.hsml"))...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "saved nav v2")

	res = runCLI(t, "", storeArgs(CmdNameCompile, "nav")...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, `<nav><a href="/blog">Blog</a></nav>`, res.stdout)

	res = runCLI(t, "", storeArgs(CmdNameCompile, "nav", "--version", "1")...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, `<nav><a href="/">Home</a></nav>`, res.stdout)

	res = runCLI(t, "", storeArgs(CmdNameList)...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))
	assert.True(t, strings.HasPrefix(res.stdout, "nav\tv2\t"))

	res = runCLI(t, "", storeArgs(CmdNameList, "--all")...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, 2, strings.Count(res.stdout, "\n"))

	res = runCLI(t, "", storeArgs(CmdNameList, "--all", "--tag", "layout")...)
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))
	assert.Contains(t, res.stdout, "nav\tv1\t")
}

func TestStore_Failures(t *testing.T) {
	store := t.TempDir()
	storeArgs := func(args ...string) []string {
		return append([]string{CmdNameStore, "--driver", "filesystem", "--dsn", store}, args...)
	}

	t.Run("unknown document", func(t *testing.T) {
		res := runCLI(t, "", storeArgs(CmdNameCompile, "absent")...)
		assert.Equal(t, ExitCodeInputError, res.code)
		assert.Contains(t, res.stderr, ErrMsgStoreLoadFailed)
	})

	t.Run("unknown version", func(t *testing.T) {
		res := runCLI(t, "p A", storeArgs(CmdNameSave, "page", InputSourceStdin)...)
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		res = runCLI(t, "", storeArgs(CmdNameCompile, "page", "--version", "9")...)
		assert.Equal(t, ExitCodeInputError, res.code)
	})

	t.Run("invalid source is not saved", func(t *testing.T) {
		res := runCLI(t, testInvalidSource, storeArgs(CmdNameSave, "broken", InputSourceStdin)...)
		assert.Equal(t, ExitCodeParseFailure, res.code)

		res = runCLI(t, "", storeArgs(CmdNameCompile, "broken")...)
		assert.Equal(t, ExitCodeInputError, res.code)
	})

	t.Run("unknown driver", func(t *testing.T) {
		res := runCLI(t, "", CmdNameStore, "--driver", "redis", CmdNameList)
		assert.Equal(t, ExitCodeError, res.code)
		assert.Contains(t, res.stderr, ErrMsgStoreOpenFailed)
	})
}

func TestStore_MemoryDefault(t *testing.T) {
	res := runCLI(t, "", CmdNameStore, CmdNameList)

	assert.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestStore_SaveWarnsOnMemoryDriver(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		warns bool
	}{
		{name: "default driver", args: []string{CmdNameStore, CmdNameSave, "page", InputSourceStdin}, warns: true},
		{name: "explicit memory", args: []string{CmdNameStore, "--driver", "memory", CmdNameSave, "page", InputSourceStdin}, warns: true},
		{name: "filesystem", args: []string{CmdNameStore, "--driver", "filesystem", "--dsn", t.TempDir(), CmdNameSave, "page", InputSourceStdin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "p A", tt.args...)
			require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
			assert.Contains(t, res.stdout, "saved page v1")
			if tt.warns {
				assert.Contains(t, res.stderr, WarnMsgMemoryStore)
			} else {
				assert.NotContains(t, res.stderr, WarnMsgMemoryStore)
			}
		})
	}
}

// ==================== version tests ====================

func TestVersion(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		res := runCLI(t, "", CmdNameVersion)
		require.Equal(t, ExitCodeSuccess, res.code)
		assert.Contains(t, res.stdout, "go-hsml version ")
		assert.Contains(t, res.stdout, "Go: ")
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "", CmdNameVersion, "--format", OutputFormatJSON)
		require.Equal(t, ExitCodeSuccess, res.code)

		var out versionOutput
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.NotEmpty(t, out.Version)
		assert.NotEmpty(t, out.GoVersion)
	})
}

// ==================== helper tests ====================

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeInputError, exitCode(newExitError(ExitCodeInputError, "x", nil)))
	assert.Equal(t, ExitCodeUsageError, exitCode(assert.AnError))

	err := newExitError(ExitCodeError, ErrMsgReadFileFailed, assert.AnError)
	assert.Equal(t, ErrMsgReadFileFailed+": "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "only", newExitError(ExitCodeError, "only", nil).Error())
}
