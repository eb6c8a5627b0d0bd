package file

import (
	"errors"
	"fmt"
)

var (
	ErrNoTgFileID   = errors.New("file does not have telegram file_id")
	ErrFileTooLarge = errors.New("file is too large to download")
	ErrNoDownloader = errors.New("downloader is not configured")
	ErrFileExists   = errors.New("file already exists")
)

type ErrBadStatus struct {
	Status string
}

func (e *ErrBadStatus) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

type ErrDownloadFailed struct {
	Err error
}

func (e *ErrDownloadFailed) Error() string {
	return fmt.Sprintf("failed to download file: %s", e.Err)
}

func (e *ErrDownloadFailed) Unwrap() error {
	return e.Err
}

type ErrPrepareFilepath struct {
	Err error
}

func (e *ErrPrepareFilepath) Error() string {
	return fmt.Sprintf("failed to prepare file path: %s", e.Err)
}

func (e *ErrPrepareFilepath) Unwrap() error {
	return e.Err
}

type ErrReadDir struct {
	Err error
}

func (e *ErrReadDir) Error() string {
	return fmt.Sprintf("failed to read directory: %s", e.Err)
}

func (e *ErrReadDir) Unwrap() error {
	return e.Err
}
