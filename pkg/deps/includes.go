package deps

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var includeRe = regexp.MustCompile(`^\s*#\s*include(?:_next)?\s*[<"]([^>"]+)[>"]`)

// DirectiveLister finds #include directives by reading the file line by line.
// Directives inside block comments are ignored; conditional compilation is
// not evaluated, so both branches of an #ifdef contribute.
type DirectiveLister struct{}

// Includes returns the include targets of path in file order
func (DirectiveLister) Includes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	var includes []string
	inComment := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line string
		line, inComment = stripComments(scanner.Text(), inComment)

		if m := includeRe.FindStringSubmatch(line); m != nil {
			includes = append(includes, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	return includes, nil
}

// stripComments removes /* */ and // comments from line. inComment carries
// block comment state across lines.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(line); {
		if inComment {
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				return b.String(), true
			}
			i += end + 2
			inComment = false
			continue
		}
		if strings.HasPrefix(line[i:], "/*") {
			inComment = true
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], "//") {
			break
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String(), inComment
}
