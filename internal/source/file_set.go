package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every source file of one compilation. Files are never
// removed, so a FileID stays valid for the life of the set. A FileSet is
// not safe for concurrent Add/Load; concurrent reads are fine.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase creates a FileSet whose relative paths are taken
// against baseDir, as for a directory build.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the configured base directory, else the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add stores content as given and returns a new FileID, also when path was
// added before. GetLatest then answers with the new one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[path] = id
	return id
}

// Load reads path from disk and adds it with a leading BOM removed and
// CRLF line ends turned into LF. The error is the one from os.ReadFile.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- compiling user-named files is the point
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalizeSource(raw)
	return fs.Add(path, content, flags), nil
}

func normalizeSource(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(raw)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// AddVirtual adds in-memory content such as a test case or stdin.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get panics for an id that did not come from this set.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

func (fs *FileSet) Len() int { return len(fs.files) }

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span to 1-based line and column.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := fs.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

// GetLine returns line lineNum (1-based) without its newline, or "" when
// the file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	line := int(lineNum)
	start := 0
	if line > 1 {
		if line-2 >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[line-2]) + 1
	}
	end := len(f.Content)
	if line-1 < len(f.LineIdx) {
		end = int(f.LineIdx[line-1])
	}
	if start >= len(f.Content) || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for display. mode is "absolute", "relative"
// (against baseDir, or the working directory when empty), "basename" or
// "auto", which keeps relative and short paths and shortens long absolute
// ones to their base name.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
