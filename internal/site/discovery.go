package site

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DocFile is one discovered markdown source document.
type DocFile struct {
	Path         string // absolute or root-relative path to the file
	RelativePath string // path relative to the source root
	Name         string // file name including extension
}

// DiscoverDocs walks the source root recursively and returns every markdown
// file found. Hidden files and directories are skipped.
func DiscoverDocs(root string) ([]DocFile, error) {
	var files []DocFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") || !isMarkdownFile(base) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, DocFile{Path: path, RelativePath: rel, Name: base})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Documents discovered", logfields.Dir(root), logfields.Count(len(files)))
	return files, nil
}

func isMarkdownFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
