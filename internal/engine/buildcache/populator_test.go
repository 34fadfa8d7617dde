package buildcache_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports/mocks"
	"go.trai.ch/hashbang/internal/engine/buildcache"
	"go.uber.org/mock/gomock"
)

type populatorMocks struct {
	stager  *mocks.MockStager
	invoker *mocks.MockInvoker
	store   *mocks.MockStore
	logger  *mocks.MockLogger
}

func newPopulator(t *testing.T) (*buildcache.Populator, populatorMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := populatorMocks{
		stager:  mocks.NewMockStager(ctrl),
		invoker: mocks.NewMockInvoker(ctrl),
		store:   mocks.NewMockStore(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return buildcache.NewPopulator(m.stager, m.invoker, m.store, m.logger), m
}

// stagedWorkspace returns a workspace directory, optionally holding a built artifact.
func stagedWorkspace(t *testing.T, artifact []byte) *domain.Workspace {
	t.Helper()
	ws := &domain.Workspace{Dir: filepath.Join(t.TempDir(), "ws")}
	require.NoError(t, os.MkdirAll(ws.Dir, 0o750))
	if artifact != nil {
		require.NoError(t, os.MkdirAll(filepath.Dir(ws.ArtifactPath()), 0o750))
		//nolint:gosec // Test requires executable file
		require.NoError(t, os.WriteFile(ws.ArtifactPath(), artifact, 0o755))
	}
	return ws
}

var (
	testConfig = domain.Config{
		CacheDir: "/cache",
		TempDir:  "/scratch",
		Compiler: []string{"/bin/sh", "build.sh"},
	}
	testScript = domain.Script{Body: "fn main() {}"}
	testFP     = domain.ComputeFingerprint([]byte("fn main() {}"))
	testLogID  = domain.ComputeContentHash([]byte("log"))
)

func TestPopulator_Success(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)
	ws := stagedWorkspace(t, []byte("ARTIFACT"))

	gomock.InOrder(
		m.stager.EXPECT().Stage(gomock.Any(), "/scratch", testScript).Return(ws, nil),
		m.invoker.EXPECT().Invoke(gomock.Any(), []string{"/bin/sh", "build.sh"}, ws.Dir, io.Discard).
			Return(domain.BuildResult{Log: []byte("Compiling bin\n"), ExitCode: 0}, nil),
		m.store.EXPECT().WriteByContentHash("/cache", []byte("Compiling bin\n")).Return(testLogID, nil),
		m.store.EXPECT().WriteByKey("/cache", testFP, domain.CacheEntry{OutputID: testLogID, ExitCode: 0}, gomock.Any()).
			DoAndReturn(func(_ string, _ domain.Fingerprint, _ domain.CacheEntry, data io.Reader) error {
				got, err := io.ReadAll(data)
				require.NoError(t, err)
				assert.Equal(t, []byte("ARTIFACT"), got)
				return nil
			}),
	)

	outcome, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded())
	assert.Equal(t, ws.ArtifactPath(), outcome.Artifact)
	assert.Equal(t, ws, outcome.Workspace)
	assert.DirExists(t, ws.Dir, "workspace stays until the caller is done with the artifact")
}

func TestPopulator_FailedBuildStoresEmptyBlob(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)
	// A stale artifact must not be committed for a failed build.
	ws := stagedWorkspace(t, []byte("STALE"))

	m.stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any()).Return(ws, nil)
	m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BuildResult{Log: []byte("error[E0425]: cannot find value\n"), ExitCode: 101}, nil)
	m.store.EXPECT().WriteByContentHash("/cache", []byte("error[E0425]: cannot find value\n")).Return(testLogID, nil)
	m.store.EXPECT().WriteByKey("/cache", testFP, domain.CacheEntry{OutputID: testLogID, ExitCode: 101}, gomock.Any()).
		DoAndReturn(func(_ string, _ domain.Fingerprint, _ domain.CacheEntry, data io.Reader) error {
			got, err := io.ReadAll(data)
			require.NoError(t, err)
			assert.Empty(t, got)
			return nil
		})

	outcome, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded())
	assert.Equal(t, 101, outcome.ExitCode)
	assert.Empty(t, outcome.Artifact)
	assert.Equal(t, []byte("error[E0425]: cannot find value\n"), outcome.Log)
}

func TestPopulator_MissingArtifact(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)
	ws := stagedWorkspace(t, nil)

	m.stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any()).Return(ws, nil)
	m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BuildResult{ExitCode: 0}, nil)
	m.store.EXPECT().WriteByContentHash(gomock.Any(), gomock.Any()).Return(testLogID, nil)

	_, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.ErrorContains(t, err, domain.ErrBuildArtifactMissing.Error())
	assert.NoDirExists(t, ws.Dir)
}

func TestPopulator_StageError(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)

	m.stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrManifestInvalid)

	_, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestPopulator_InvokeErrorCleansUp(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)
	ws := stagedWorkspace(t, nil)

	m.stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any()).Return(ws, nil)
	m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BuildResult{}, errors.New("exec: \"cargo\": executable file not found in $PATH"))

	_, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.ErrorContains(t, err, "executable file not found")
	assert.NoDirExists(t, ws.Dir)
}

func TestPopulator_StoreErrorCleansUp(t *testing.T) {
	t.Parallel()
	populator, m := newPopulator(t)
	ws := stagedWorkspace(t, []byte("ARTIFACT"))

	m.stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any()).Return(ws, nil)
	m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BuildResult{ExitCode: 0}, nil)
	m.store.EXPECT().WriteByContentHash(gomock.Any(), gomock.Any()).Return(domain.ContentHash(""), domain.ErrStoreWriteFailed)

	_, err := populator.Populate(context.Background(), testConfig, testFP, testScript, io.Discard)
	require.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
	assert.NoDirExists(t, ws.Dir)
}
