package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hashbang/internal/adapters/cas"
	"go.trai.ch/hashbang/internal/adapters/fs"
	"go.trai.ch/hashbang/internal/adapters/shell"
	"go.trai.ch/hashbang/internal/adapters/workspace"
	"go.trai.ch/hashbang/internal/app"
	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports/mocks"
	"go.trai.ch/hashbang/internal/engine/buildcache"
	"go.uber.org/mock/gomock"
)

// fakeCompiler stands in for cargo. It records each invocation, fails when the
// body contains COMPILE_ERROR and otherwise turns the body into a shell script.
const fakeCompiler = `echo invoked >> "$1"
printf '   Compiling bin v0.0.1\n'
grep -q "^name = 'bin'" Cargo.toml || exit 3
grep -q "^version = '0.0.1'" Cargo.toml || exit 3
grep -q "^edition = '2021'" Cargo.toml || exit 3
if grep -q COMPILE_ERROR src/main.rs; then
  printf 'error: could not compile\n' >&2
  exit 101
fi
mkdir -p target/release
{ printf '#!/bin/sh\n'; cat src/main.rs; printf '\n'; } > target/release/bin
chmod 755 target/release/bin
`

// harness wires the application to real adapters and the fake compiler.
// Tests using it execute freshly written files and do not run in parallel.
type harness struct {
	t       *testing.T
	cfg     domain.Config
	counter string
	stdin   *strings.Reader
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	app     *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	compiler := filepath.Join(dir, "compiler.sh")
	require.NoError(t, os.WriteFile(compiler, []byte(fakeCompiler), 0o600))

	h := &harness{
		t:       t,
		counter: filepath.Join(dir, "invocations"),
		stdin:   strings.NewReader(""),
	}
	h.cfg = domain.Config{
		CacheDir: filepath.Join(dir, "cache"),
		TempDir:  filepath.Join(dir, "tmp"),
		Compiler: []string{"/bin/sh", compiler, h.counter},
	}
	require.NoError(t, os.MkdirAll(h.cfg.TempDir, 0o750))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	store, err := cas.NewStore()
	require.NoError(t, err)

	h.app = app.New(
		fs.NewReaderFrom(h.stdin),
		store,
		buildcache.NewPopulator(workspace.NewStager(), shell.NewInvoker(log), store, log),
		buildcache.NewReplayer(store, log),
		shell.NewExecutorWithStreams(log, strings.NewReader(""), &h.stdout, &h.stderr),
		log,
	).WithStreams(&h.stdout, &h.stderr)
	return h
}

// writeScript writes source to a file and returns its path.
func (h *harness) writeScript(name, source string) string {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), name)
	require.NoError(h.t, os.WriteFile(path, []byte(source), 0o600))
	return path
}

// invocations returns how many times the compiler ran.
func (h *harness) invocations() int {
	h.t.Helper()
	data, err := os.ReadFile(h.counter)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(h.t, err)
	return strings.Count(string(data), "invoked\n")
}

// run executes the app and returns the exit code with the captured streams, resetting them.
func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	code, err := h.app.Run(context.Background(), h.cfg, args)
	require.NoError(h.t, err)
	stdout, stderr := h.stdout.String(), h.stderr.String()
	h.stdout.Reset()
	h.stderr.Reset()
	return code, stdout, stderr
}

func TestApp_BuildsOnceAndReplays(t *testing.T) {
	h := newHarness(t)
	path := h.writeScript("seven.rs", "#!/usr/bin/env hashbang\necho \"hello $*\"\nexit 7")

	for i := range 3 {
		code, stdout, stderr := h.run(path, "a", "b c")
		assert.Equal(t, 7, code, "run %d", i)
		assert.Equal(t, "hello a b c\n", stdout, "run %d", i)
		assert.Empty(t, stderr, "run %d", i)
	}
	assert.Equal(t, 1, h.invocations())

	store, err := cas.NewStore()
	require.NoError(t, err)
	//nolint:gosec // Test file
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	entry, err := store.Lookup(h.cfg.CacheDir, domain.ComputeFingerprint(raw))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 0, entry.ExitCode, "the entry records the compiler exit, not the program's")
}

func TestApp_FailedBuildReplaysLog(t *testing.T) {
	h := newHarness(t)
	path := h.writeScript("broken.rs", "COMPILE_ERROR")

	firstCode, firstOut, firstErr := h.run(path)
	secondCode, secondOut, secondErr := h.run(path)

	assert.Equal(t, 101, firstCode)
	assert.Equal(t, "   Compiling bin v0.0.1\nerror: could not compile\n", firstErr)
	assert.Empty(t, firstOut)

	assert.Equal(t, firstCode, secondCode)
	assert.Equal(t, firstErr, secondErr)
	assert.Equal(t, firstOut, secondOut)
	assert.Equal(t, 1, h.invocations())
}

func TestApp_ShebangChangesFingerprint(t *testing.T) {
	h := newHarness(t)
	body := "echo same"
	first := h.writeScript("a.rs", "#!/usr/bin/env hashbang\n"+body)
	second := h.writeScript("b.rs", "#!/usr/local/bin/hashbang\n"+body)

	for _, path := range []string{first, second, first, second} {
		code, stdout, _ := h.run(path)
		assert.Equal(t, 0, code)
		assert.Equal(t, "same\n", stdout)
	}
	assert.Equal(t, 2, h.invocations())
}

func TestApp_FrontmatterCannotRenamePackage(t *testing.T) {
	h := newHarness(t)
	path := h.writeScript("custom.rs", `#!/usr/bin/env hashbang
+++
[package]
name = "custom"
version = "9.9.9"
edition = "2015"

[dependencies]
rand = "0.8"
+++
echo built`)

	code, stdout, stderr := h.run(path)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "built\n", stdout)
}

func TestApp_ReadsStdin(t *testing.T) {
	h := newHarness(t)
	h.stdin.Reset("echo from stdin")

	code, stdout, _ := h.run()
	assert.Equal(t, 0, code)
	assert.Equal(t, "from stdin\n", stdout)

	h.stdin.Reset("echo from stdin")
	code, stdout, _ = h.run(domain.StdinPath, "ignored")
	assert.Equal(t, 0, code)
	assert.Equal(t, "from stdin\n", stdout)
	assert.Equal(t, 1, h.invocations())
}

func TestApp_VerboseStreamsCompilerOutput(t *testing.T) {
	h := newHarness(t)
	h.cfg.Verbosity = 1
	path := h.writeScript("loud.rs", "echo done")

	_, stdout, _ := h.run(path)
	assert.Equal(t, "   Compiling bin v0.0.1\ndone\n", stdout)

	_, stdout, _ = h.run(path)
	assert.Equal(t, "done\n", stdout, "a cache hit does not replay a successful build log")
}

func TestApp_VerboseFailedBuildPrintsLogOnce(t *testing.T) {
	h := newHarness(t)
	h.cfg.Verbosity = 1
	path := h.writeScript("broken.rs", "COMPILE_ERROR")
	log := "   Compiling bin v0.0.1\nerror: could not compile\n"

	code, stdout, stderr := h.run(path)
	assert.Equal(t, 101, code)
	assert.Equal(t, log, stdout)
	assert.Empty(t, stderr)

	code, stdout, stderr = h.run(path)
	assert.Equal(t, 101, code)
	assert.Empty(t, stdout)
	assert.Equal(t, log, stderr, "a replay prints the recorded log")
	assert.Equal(t, 1, h.invocations())
}

func TestApp_CleansUpDirectories(t *testing.T) {
	h := newHarness(t)
	ok := h.writeScript("ok.rs", "true")
	broken := h.writeScript("broken.rs", "COMPILE_ERROR")

	for _, path := range []string{ok, ok, broken, broken} {
		h.run(path)
	}

	entries, err := os.ReadDir(h.cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		source  []byte
		wantErr error
	}{
		{name: "not utf-8", source: []byte{0xff, 0xfe, 0x00}, wantErr: domain.ErrInputNotText},
		{name: "unterminated frontmatter", source: []byte("+++\n[dependencies]\nfn main() {}"), wantErr: domain.ErrFrontmatterUnterminated},
		{name: "invalid manifest", source: []byte("+++\npackage = 1\n+++\nfn main() {}"), wantErr: domain.ErrManifestInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			path := filepath.Join(t.TempDir(), "script.rs")
			require.NoError(t, os.WriteFile(path, tt.source, 0o600))

			code, err := h.app.Run(context.Background(), h.cfg, []string{path})
			require.ErrorContains(t, err, tt.wantErr.Error())
			assert.Equal(t, domain.ExitToolFailure, code)
			assert.Equal(t, 0, h.invocations())
		})
	}
}

func TestApp_MissingInputFile(t *testing.T) {
	h := newHarness(t)

	code, err := h.app.Run(context.Background(), h.cfg, []string{filepath.Join(t.TempDir(), "missing.rs")})
	require.ErrorContains(t, err, domain.ErrInputReadFailed.Error())
	assert.Equal(t, domain.ExitToolFailure, code)
}

func TestApp_CompilerNotFound(t *testing.T) {
	h := newHarness(t)
	h.cfg.Compiler = []string{filepath.Join(t.TempDir(), "no-such-compiler")}
	path := h.writeScript("script.rs", "true")

	code, err := h.app.Run(context.Background(), h.cfg, []string{path})
	require.ErrorContains(t, err, domain.ErrCompilerStart.Error())
	assert.Equal(t, domain.ExitToolFailure, code)

	entries, err := os.ReadDir(h.cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "the workspace is removed when the compiler cannot start")
}

func TestApp_CorruptedCacheEntry(t *testing.T) {
	h := newHarness(t)
	path := h.writeScript("script.rs", "true")
	h.run(path)

	content := filepath.Join(h.cfg.CacheDir, "content")
	err := filepath.WalkDir(content, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		return os.WriteFile(p, []byte("garbage"), 0o600)
	})
	require.NoError(t, err)

	code, err := h.app.Run(context.Background(), h.cfg, []string{path})
	require.ErrorContains(t, err, domain.ErrReplayFailed.Error())
	assert.ErrorContains(t, err, domain.ErrStoreCorrupted.Error())
	assert.Equal(t, domain.ExitToolFailure, code)
	assert.Equal(t, 1, h.invocations())
}

func TestApp_WithStreamsReturnsApp(t *testing.T) {
	t.Parallel()
	a := app.New(nil, nil, nil, nil, nil, nil)
	assert.Same(t, a, a.WithStreams(io.Discard, io.Discard))
}
