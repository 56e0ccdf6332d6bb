package transcript

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// MaxBytes is the largest transcript accepted
const MaxBytes int64 = 100 * 1024 * 1024

// Loader reads plain-text transcripts from a filesystem
type Loader struct {
	fs       afero.Fs
	maxBytes int64
}

// NewLoader creates a loader on fs. A non-positive maxBytes uses MaxBytes.
func NewLoader(fs afero.Fs, maxBytes int64) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if maxBytes <= 0 {
		maxBytes = MaxBytes
	}
	return &Loader{fs: fs, maxBytes: maxBytes}
}

// Load reads and validates the transcript at path
func (l *Loader) Load(path string) (string, error) {
	if !AcceptedFile(path, "") {
		return "", entities.ErrUnsupportedFileType
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat transcript: %w", err)
	}
	if info.Size() > l.maxBytes {
		return "", entities.ErrFileTooLarge
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	return l.Read(f)
}

// Read validates a transcript stream such as an upload or stdin
func (l *Loader) Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return "", entities.ErrFileTooLarge
	}
	if !utf8.Valid(data) {
		return "", entities.ErrUnsupportedFileType
	}

	// Pasted and exported transcripts mix composed and decomposed accents.
	text := norm.NFC.String(string(data))
	if strings.TrimSpace(text) == "" {
		return "", entities.ErrEmptyTranscript
	}
	return text, nil
}

// AcceptedFile reports whether a file looks like plain text by extension or content type
func AcceptedFile(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".txt") {
		return true
	}
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/plain"
}
