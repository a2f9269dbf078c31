// pkg/stage/extract.go
package stage

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

// Compression formats understood by Extract
const (
	FormatNone = ""
	FormatTar  = "tar"
	FormatGzip = "gzip"
	FormatXz   = "xz"
	FormatZstd = "zstd"
)

var archiveSuffixes = []struct {
	suffix string
	format string
}{
	{".tar.gz", FormatGzip},
	{".tgz", FormatGzip},
	{".tar.xz", FormatXz},
	{".txz", FormatXz},
	{".tar.zst", FormatZstd},
	{".tzst", FormatZstd},
	{".tar", FormatTar},
}

// ArchiveFormat returns the format of a source bundle, or FormatNone when
// path is not a tarball
func ArchiveFormat(path string) string {
	lower := strings.ToLower(path)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format
		}
	}
	return FormatNone
}

// Extract unpacks a tarball into dest and returns the regular files written,
// in archive order. Entries that would land outside dest are rejected.
func Extract(archive, dest string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	format := ArchiveFormat(archive)
	if format == FormatNone {
		return nil, fmt.Errorf("%s is not a tar archive", archive)
	}

	f, err := os.Open(archive)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatGzip:
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	case FormatXz:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzReader
	case FormatZstd:
		zstdReader, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zstdReader.Close()
		r = zstdReader
	}

	logger.Debug("extracting bundle",
		zap.String("archive", archive),
		zap.String("format", format),
		zap.String("dest", dest))

	tarReader := tar.NewReader(r)
	var files []string
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		// Clean the path (remove leading ./)
		cleanPath := strings.TrimPrefix(filepath.FromSlash(header.Name), "."+string(filepath.Separator))
		if cleanPath == "" || cleanPath == "." {
			continue
		}
		if !filepath.IsLocal(cleanPath) {
			return nil, fmt.Errorf("archive entry %q escapes the staging directory", header.Name)
		}

		targetPath := filepath.Join(dest, cleanPath)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return nil, fmt.Errorf("creating parent directory: %w", err)
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm()|0600)
			if err != nil {
				return nil, fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, tarReader)
			outFile.Close()
			if err != nil {
				return nil, fmt.Errorf("writing file %s: %w", targetPath, err)
			}
			if written != header.Size {
				return nil, fmt.Errorf("file size mismatch for %s: expected %d, got %d", targetPath, header.Size, written)
			}

			files = append(files, targetPath)

		default:
			logger.Debug("skipping unsupported entry",
				zap.String("entry", header.Name),
				zap.Uint8("type", header.Typeflag))
		}
	}

	logger.Debug("bundle extracted", zap.Int("files", len(files)))
	return files, nil
}
