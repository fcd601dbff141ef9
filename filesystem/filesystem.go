// Package filesystem abstracts the local filesystem operations the rest
// of the framework needs, mainly around spill files for decoded uploads.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrInvalidPath  = errors.New("filesystem: invalid path")
)

type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error
	DeleteFile(path string) error
	CopyFile(source, destination string) error

	FileExists(path string) (bool, error)
	FileSize(path string) (int64, error)

	CreateDirectory(path string) error
	DirectoryExists(path string) (bool, error)
	ListDirectory(path string) ([]os.FileInfo, error)
}

type localFilesystem struct{}

func NewLocalFilesystem() Filesystem {
	return &localFilesystem{}
}

var defaultFilesystem Filesystem = &localFilesystem{}

// Default returns the process-wide local filesystem.
func Default() Filesystem {
	return defaultFilesystem
}

func (filesystem *localFilesystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return content, err
}

func (filesystem *localFilesystem) WriteFile(path string, content []byte) error {
	if path == "" {
		return ErrInvalidPath
	}
	if err := filesystem.CreateDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// DeleteFile removes a file; a missing file is not an error.
func (filesystem *localFilesystem) DeleteFile(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (filesystem *localFilesystem) CopyFile(source, destination string) error {
	if source == "" || destination == "" {
		return ErrInvalidPath
	}

	sourceFile, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, source)
		}
		return err
	}
	defer func() {
		if closeErr := sourceFile.Close(); closeErr != nil {
			slog.Error("closing source file error", "error", closeErr)
		}
	}()

	if err := filesystem.CreateDirectory(filepath.Dir(destination)); err != nil {
		return err
	}

	destinationFile, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destinationFile.Close(); closeErr != nil {
			slog.Error("closing destination file error", "error", closeErr)
		}
	}()

	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return err
	}
	return destinationFile.Sync()
}

func (filesystem *localFilesystem) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (filesystem *localFilesystem) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return 0, err
	}
	return info.Size(), nil
}

func (filesystem *localFilesystem) CreateDirectory(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	exists, err := filesystem.DirectoryExists(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return os.MkdirAll(path, 0770)
}

func (filesystem *localFilesystem) DirectoryExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (filesystem *localFilesystem) ListDirectory(path string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
