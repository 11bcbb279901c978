package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("log"), 0o644))
}

func TestFlat(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "sa_fuzz_log.txt"))
	touch(t, filepath.Join(dir, "me_fuzz_log.txt"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir_fuzz_log.txt"), 0o755))

	sources, err := Flat(dir, FlatLogSuffix)
	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Label: "me", Path: filepath.Join(dir, "me_fuzz_log.txt")},
		{Label: "sa", Path: filepath.Join(dir, "sa_fuzz_log.txt")},
	}, sources)

	_, err = Flat(dir, FlatStatSuffix)
	assert.ErrorIs(t, err, ErrNoLogFiles)
}

func TestFlatLabelDropsEverySuffixOccurrence(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a_fuzz_log.txt_fuzz_log.txt"))

	sources, err := Flat(dir, FlatLogSuffix)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "a", sources[0].Label)
}

func TestRuns(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "rq_origin", RunLogName))
	touch(t, filepath.Join(root, "rq_no_mut", RunLogName))
	touch(t, filepath.Join(root, "empty", "other.txt"))
	touch(t, filepath.Join(root, RunLogName))

	sources, err := Runs(root, RunLogName)
	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Label: "rq_no_mut", Path: filepath.Join(root, "rq_no_mut", RunLogName)},
		{Label: "rq_origin", Path: filepath.Join(root, "rq_origin", RunLogName)},
	}, sources)

	_, err = Runs(t.TempDir(), RunLogName)
	assert.ErrorIs(t, err, ErrNoLogFiles)

	_, err = Runs(filepath.Join(root, "missing"), RunLogName)
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "webkit")
	touch(t, filepath.Join(dir, TableLogName))

	src, err := Table(dir, TableLogName)
	require.NoError(t, err)
	assert.Equal(t, "webkit", src.Label)
	assert.Equal(t, filepath.Join(dir, TableLogName), src.Path)

	_, err = Table(root, TableLogName)
	require.Error(t, err)
	assert.Equal(t, "log file not found: "+filepath.Join(root, TableLogName), err.Error())
}

func TestDirs(t *testing.T) {
	dirs := Dirs(
		Source{Path: "/a/x/fuzz_log.txt"},
		Source{Path: "/a/y/fuzz_log.txt"},
		Source{Path: "/a/x/other.txt"},
	)
	assert.Equal(t, []string{"/a/x", "/a/y"}, dirs)
}

func TestRunsFollowsSymlinkedRuns(t *testing.T) {
	results := t.TempDir()
	touch(t, filepath.Join(results, "campaign-7", RunLogName))
	touch(t, filepath.Join(results, "notes.txt"))

	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(results, "campaign-7"), filepath.Join(root, "rq_origin")))
	require.NoError(t, os.Symlink(filepath.Join(results, "notes.txt"), filepath.Join(root, "rq_notes")))
	require.NoError(t, os.Symlink(filepath.Join(results, "gone"), filepath.Join(root, "rq_dangling")))

	sources, err := Runs(root, RunLogName)
	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Label: "rq_origin", Path: filepath.Join(root, "rq_origin", RunLogName)},
	}, sources)
}
