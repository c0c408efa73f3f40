package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned when file content cannot be decoded as UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// FileSet holds the files loaded during one check run, in load order.
// It is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make([]*File, 0)}
}

// Add decodes content, splits it into lines and stores the file under a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) (FileID, error) {
	f, err := Decode(path, content)
	if err != nil {
		return 0, err
	}
	f.Flags |= flags

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(lenFiles)
	fileSet.files = append(fileSet.files, f)
	return f.ID, nil
}

// Load reads a file from disk and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, 0)
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// Len returns the number of files added so far.
func (fileSet *FileSet) Len() int {
	if fileSet == nil {
		return 0
	}
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// Decode builds a File from raw content without registering it anywhere.
// Content must be valid UTF-8; the error wraps ErrInvalidUTF8 otherwise.
func Decode(path string, content []byte) (*File, error) {
	if _, n, err := transform.Bytes(encoding.UTF8Validator, content); err != nil {
		return nil, fmt.Errorf("%s: %w at byte offset %d", path, ErrInvalidUTF8, n)
	}
	var flags FileFlags
	if hasBOM(content) {
		flags |= FileHadBOM
	}
	if hasCRLF(content) {
		flags |= FileHadCRLF
	}
	return &File{
		Path:    path,
		Content: content,
		Lines:   splitLines(string(content)),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}, nil
}

// ReadFile reads and decodes a single file outside of any FileSet.
func ReadFile(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, content)
}
