package domain

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVExtension is matched case-sensitively against the end of a file name
const CSVExtension = ".csv"

const MessageWrongFileType = "Please upload a CSV file"

// FileHandle is an operator-selected file whose content is read only when the
// batch request is issued.
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// BatchFile is a file accepted by SelectFile and staged for submission
type BatchFile struct {
	handle FileHandle
}

func (f BatchFile) Name() string {
	return f.handle.Name()
}

func (f BatchFile) Open() (io.ReadCloser, error) {
	return f.handle.Open()
}

// SelectFile accepts handle only when its name ends in .csv. Content is not
// inspected; column checks are left to the scoring service.
func SelectFile(handle FileHandle) (BatchFile, error) {
	if handle == nil {
		return BatchFile{}, &IntakeError{Message: MessageWrongFileType}
	}

	if !strings.HasSuffix(handle.Name(), CSVExtension) {
		return BatchFile{}, &IntakeError{FileName: handle.Name(), Message: MessageWrongFileType}
	}

	return BatchFile{handle: handle}, nil
}

type pathHandle struct {
	path string
}

// NewPathHandle refers to a file on disk by path
func NewPathHandle(path string) FileHandle {
	return pathHandle{path: path}
}

func (h pathHandle) Name() string {
	return filepath.Base(h.path)
}

func (h pathHandle) Open() (io.ReadCloser, error) {
	return os.Open(h.path)
}

type bytesHandle struct {
	name    string
	content []byte
}

// NewBytesHandle wraps in-memory content under name
func NewBytesHandle(name string, content []byte) FileHandle {
	return bytesHandle{name: name, content: content}
}

func (h bytesHandle) Name() string {
	return h.name
}

func (h bytesHandle) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(h.content)), nil
}
