package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvannes/basalt/test"
)

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.txt")
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.WriteFile(path, []byte("content")))

	content, err := fs.ReadFile(path)
	test.AssertNoError(t, err)
	test.AssertEqual(t, "content", string(content))
}

func TestReadFileNotFound(t *testing.T) {
	fs := NewLocalFilesystem()

	_, err := fs.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	test.AssertErrorIs(t, err, ErrFileNotFound)
}

func TestReadFileEmptyPath(t *testing.T) {
	fs := NewLocalFilesystem()

	_, err := fs.ReadFile("")
	test.AssertErrorIs(t, err, ErrInvalidPath)
}

func TestDeleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.WriteFile(path, []byte("x")))
	test.AssertNoError(t, fs.DeleteFile(path))

	exists, err := fs.FileExists(path)
	test.AssertNoError(t, err)
	test.AssertTrue(t, !exists, "file should be gone after delete")

	test.AssertNoError(t, fs.DeleteFile(path))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.txt")
	destination := filepath.Join(dir, "sub", "copy.txt")
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.WriteFile(source, []byte("payload")))
	test.AssertNoError(t, fs.CopyFile(source, destination))

	content, err := fs.ReadFile(destination)
	test.AssertNoError(t, err)
	test.AssertEqual(t, "payload", string(content))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFilesystem()

	err := fs.CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "copy"))
	test.AssertErrorIs(t, err, ErrFileNotFound)
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.WriteFile(path, []byte("12345")))

	size, err := fs.FileSize(path)
	test.AssertNoError(t, err)
	test.AssertEqual(t, int64(5), size)
}

func TestCreateDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.CreateDirectory(path))

	exists, err := fs.DirectoryExists(path)
	test.AssertNoError(t, err)
	test.AssertTrue(t, exists, "directory should exist after create")

	test.AssertNoError(t, fs.CreateDirectory(path))
}

func TestFileExistsDistinguishesDirectories(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFilesystem()

	exists, err := fs.FileExists(dir)
	test.AssertNoError(t, err)
	test.AssertTrue(t, !exists, "a directory is not a file")
}

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocalFilesystem()

	test.AssertNoError(t, fs.WriteFile(filepath.Join(dir, "a.txt"), []byte("a")))
	test.AssertNoError(t, fs.WriteFile(filepath.Join(dir, "b.txt"), []byte("b")))

	infos, err := fs.ListDirectory(dir)
	test.AssertNoError(t, err)
	test.AssertEqual(t, 2, len(infos))
}

func TestListDirectoryMissing(t *testing.T) {
	fs := NewLocalFilesystem()

	_, err := fs.ListDirectory(filepath.Join(t.TempDir(), "missing"))
	test.AssertTrue(t, err != nil, "listing a missing directory should fail")
	test.AssertTrue(t, os.IsNotExist(err), "error should report not-exist")
}
