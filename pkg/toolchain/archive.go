package toolchain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/blakesmith/ar"
)

// ArchiveMembers lists the object files stored in a static library. GNU and
// BSD symbol tables are skipped and GNU long names are resolved.
func ArchiveMembers(path string) (members []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if !bytes.HasPrefix(data, []byte(ar.GLOBAL_HEADER)) {
		return nil, fmt.Errorf("%s is not an ar archive", path)
	}
	if err := normalizeHeaders(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			members, err = nil, fmt.Errorf("%s: malformed ar archive: %v", path, r)
		}
	}()

	reader := ar.NewReader(bytes.NewReader(data))
	var longNames []byte

	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ar entry: %w", err)
		}

		name := header.Name
		switch {
		case name == "/" || name == "/SYM64/" || strings.HasPrefix(name, "__.SYMDEF"):
			continue
		case name == "//":
			if longNames, err = io.ReadAll(reader); err != nil {
				return nil, fmt.Errorf("reading long name table: %w", err)
			}
			continue
		case strings.HasPrefix(name, "/"):
			name = longName(longNames, name[1:])
		case strings.HasPrefix(name, "#1/"):
			// BSD: the name is stored at the start of the member data
			n, err := strconv.Atoi(name[3:])
			if err != nil {
				return nil, fmt.Errorf("bad BSD name %q", name)
			}
			buf := make([]byte, n)
			if _, err := io.ReadFull(reader, buf); err != nil {
				return nil, fmt.Errorf("reading BSD name: %w", err)
			}
			name = string(bytes.TrimRight(buf, "\x00"))
		}

		members = append(members, strings.TrimSuffix(name, "/"))
	}

	return members, nil
}

// normalizeHeaders checks every member header and rewrites its mode field.
// GNU ar leaves the mode of its symbol and name tables short or blank, which
// the reader cannot parse; members are listed by name only.
func normalizeHeaders(data []byte) error {
	off := len(ar.GLOBAL_HEADER)
	for off < len(data) {
		if off+ar.HEADER_BYTE_SIZE > len(data) {
			return fmt.Errorf("truncated member header at offset %d", off)
		}
		h := data[off : off+ar.HEADER_BYTE_SIZE]
		if string(h[58:60]) != "`\n" {
			return fmt.Errorf("bad member header at offset %d", off)
		}
		size, err := strconv.ParseInt(strings.TrimSpace(string(h[48:58])), 10, 64)
		if err != nil || size < 0 {
			return fmt.Errorf("bad member size at offset %d", off)
		}
		copy(h[40:48], "100644  ")

		off += ar.HEADER_BYTE_SIZE + int(size) + int(size%2)
		if off > len(data)+1 {
			return fmt.Errorf("member at offset %d runs past the end", off)
		}
	}
	return nil
}

func longName(table []byte, offset string) string {
	off, err := strconv.Atoi(offset)
	if err != nil || off < 0 || off >= len(table) {
		return "/" + offset
	}
	rest := table[off:]
	if end := bytes.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	return string(rest)
}
