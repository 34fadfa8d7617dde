//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var hashbangBinary string

// fakeCargo replaces the real compiler on PATH. It records each invocation, fails
// when the body contains COMPILE_ERROR and otherwise turns the body into a shell script.
const fakeCargo = `#!/bin/sh
echo invoked >> "$HASHBANG_E2E_COUNTER"
printf '   Compiling bin v0.0.1\n'
grep -q "^name = 'bin'" Cargo.toml || { echo 'error: package was renamed' >&2; exit 3; }
grep -q "^version = '0.0.1'" Cargo.toml || { echo 'error: version was changed' >&2; exit 3; }
if grep -q COMPILE_ERROR src/main.rs; then
  printf 'error: could not compile bin\n' >&2
  exit 101
fi
mkdir -p target/release
{ printf '#!/bin/sh\n'; cat src/main.rs; printf '\n'; } > target/release/bin
chmod 755 target/release/bin
`

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "hashbang-e2e-*")
	if err != nil {
		panic(err)
	}

	hashbangBinary = filepath.Join(tmpDir, "hashbang")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", hashbangBinary, "./cmd/hashbang")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build hashbang binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")

	toolDir := filepath.Join(env.WorkDir, ".bin")
	if err := os.MkdirAll(toolDir, 0o750); err != nil {
		return err
	}
	//nolint:gosec // Test requires executable file
	if err := os.WriteFile(filepath.Join(toolDir, "cargo"), []byte(fakeCargo), 0o755); err != nil {
		return err
	}

	binDir := filepath.Dir(hashbangBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+toolDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDir, ".config"))
	env.Setenv("HASHBANG_E2E_COUNTER", filepath.Join(env.WorkDir, "invocations"))

	return nil
}
