package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ZIPOptions selects which archive entries ExtractZIP writes.
type ZIPOptions struct {
	// Extensions keeps only entries with one of these lower-case extensions
	// (".xml", ".pdf"). Empty keeps every file.
	Extensions []string
	// MaxEntryBytes rejects the archive when an entry inflates past it.
	// Zero means no limit.
	MaxEntryBytes int64
}

func (o ZIPOptions) wants(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(base, ".") {
		return false
	}
	if len(o.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(base))
	for _, e := range o.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractZIP writes the selected entries of the archive at zipPath into
// destDir, keeping their relative paths. Directories and filtered entries
// are skipped. The written paths are returned in archive order.
func ExtractZIP(zipPath, destDir string, opts ZIPOptions) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !opts.wants(f.Name) {
			continue
		}
		if opts.MaxEntryBytes > 0 && f.UncompressedSize64 > uint64(opts.MaxEntryBytes) {
			return written, eris.Errorf("zip: entry %q exceeds %d bytes", f.Name, opts.MaxEntryBytes)
		}
		dest, err := entryPath(destDir, f.Name)
		if err != nil {
			return written, err
		}
		if err := writeEntry(f, dest, opts.MaxEntryBytes); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}

// entryPath resolves name under destDir and refuses paths that escape it.
func entryPath(destDir, name string) (string, error) {
	dest := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(filepath.Clean(dest), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q (zip slip attempt)", name)
	}
	return dest, nil
}

func writeEntry(f *zip.File, dest string, limit int64) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return eris.Wrapf(err, "zip: create directory for %s", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return eris.Wrapf(err, "zip: create %s", dest)
	}
	defer out.Close() //nolint:errcheck

	// The header size can lie; cap what is actually inflated.
	var src io.Reader = rc
	if limit > 0 {
		src = io.LimitReader(rc, limit+1)
	}
	n, err := io.Copy(out, src)
	if err != nil {
		return eris.Wrapf(err, "zip: write %s", f.Name)
	}
	if limit > 0 && n > limit {
		return eris.Errorf("zip: entry %q exceeds %d bytes", f.Name, limit)
	}
	return nil
}
