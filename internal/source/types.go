package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileHadBOM marks content starting with a UTF-8 byte order mark.
	// The mark is kept in both views.
	FileHadBOM FileFlags = 1 << iota
	// FileHadCRLF marks content with at least one CRLF terminator.
	FileHadCRLF
)

// File is one checked source file. It exposes two read-only views of the
// same content: the raw bytes as stored on disk and the decoded text lines.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Lines   []string // no terminators
	Hash    [32]byte
	Flags   FileFlags
}

// LineCount returns the number of text lines.
func (f *File) LineCount() int {
	return len(f.Lines)
}
