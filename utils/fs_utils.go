package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes data to the file at filePath, creating any parent directories which do not exist.
func WriteFile(filePath string, data []byte) error {
	if directory := filepath.Dir(filePath); directory != "." {
		if err := MakeDirectory(directory); err != nil {
			return err
		}
	}
	return errors.WithStack(os.WriteFile(filePath, data, 0644))
}

// CopyFile copies a file from a source path to a destination path. File permissions are retained. Returns an error
// if one occurs.
func CopyFile(sourcePath string, targetPath string) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if sourceInfo.IsDir() {
		return fmt.Errorf("could not copy file from '%s' to '%s' because the source path refers to a directory", sourcePath, targetPath)
	}

	if err = MakeDirectory(filepath.Dir(targetPath)); err != nil {
		return err
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	targetFile, err := os.Create(targetPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer targetFile.Close()

	if _, err = io.Copy(targetFile, sourceFile); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Chmod(targetPath, sourceInfo.Mode()))
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if os.IsNotExist(err) {
		return errors.WithStack(os.MkdirAll(dirToMake, 0755))
	} else if err != nil {
		return errors.WithStack(err)
	}

	if !dirInfo.IsDir() {
		return fmt.Errorf("there is a file with the same name as %s", dirToMake)
	}
	return nil
}

// CopyDirectory copies every file within a source directory, and its subdirectories, to a destination path. Returns
// an error if one occurs.
func CopyDirectory(sourcePath string, targetPath string) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if !sourceInfo.IsDir() {
		return fmt.Errorf("could not copy directory from '%s' to '%s' because the source path does not refer to a valid directory", sourcePath, targetPath)
	}

	if err = os.MkdirAll(targetPath, sourceInfo.Mode()); err != nil {
		return errors.WithStack(err)
	}

	dirEntries, err := os.ReadDir(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, dirEntry := range dirEntries {
		entSourcePath := filepath.Join(sourcePath, dirEntry.Name())
		entTargetPath := filepath.Join(targetPath, dirEntry.Name())

		if dirEntry.IsDir() {
			err = CopyDirectory(entSourcePath, entTargetPath)
		} else {
			err = CopyFile(entSourcePath, entTargetPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
