// SPDX-License-Identifier: MPL-2.0

// Package manifest reads pip requirements files for diagnostics. Installation
// itself always goes through `pip install -r`, so this parser only needs to
// understand enough of the format to surface problems before pip runs.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// DefaultPath is the manifest consumed when no override is configured.
const DefaultPath = "requirements.txt"

// namePattern matches a normalized distribution name per PEP 508.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// specifierPattern matches the operator of a version specifier clause.
var specifierPattern = regexp.MustCompile(`^(===|==|!=|~=|<=|>=|<|>)`)

// schemePattern matches a URL scheme prefix, including pip's VCS forms
// like git+ssh://.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

type (
	// Requirement is one dependency declaration.
	Requirement struct {
		// Name is the distribution name as written.
		Name string
		// Extras are the extras requested in brackets (e.g. "toml" in pkg[toml]).
		Extras []string
		// Specifier is the raw version constraint, empty when unpinned.
		Specifier string
		// URL is the direct reference target (name @ url), if any.
		URL string
		// Marker is the environment marker after ';', if any.
		Marker string
		// Raw is the full line as written (continuations joined).
		Raw string
		// Line is the 1-based line number where the requirement starts.
		Line int
	}

	// Problem describes a line the parser could not accept.
	Problem struct {
		Line    int
		Message string
	}

	// File is a parsed requirements manifest.
	File struct {
		// Path is the manifest location, as given to Load.
		Path string
		// Requirements are the dependency declarations in file order.
		Requirements []Requirement
		// References are paths named by -r/-c include lines.
		References []string
		// Options are pip option lines (e.g. --index-url, -e) passed through
		// untouched; pip interprets them, not us.
		Options []string
		// Archives are archive URL and local-path requirement lines. Pip
		// resolves these itself, so they pass through unparsed.
		Archives []string
		// Problems are lines that are not valid requirements.
		Problems []Problem
	}
)

// Error implements the error interface.
func (p Problem) Error() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Message)
}

// Valid reports whether the manifest parsed without problems.
func (f *File) Valid() bool { return len(f.Problems) == 0 }

// Load reads and parses the manifest at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency manifest %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dependency manifest %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse reads a requirements manifest from r. Syntactically invalid lines are
// collected as Problems rather than failing the parse; only I/O errors return
// a non-nil error.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		startLine := lineNo
		line := scanner.Text()

		// Backslash continuations join with following lines, as pip does.
		for strings.HasSuffix(line, `\`) && scanner.Scan() {
			lineNo++
			line = strings.TrimSuffix(line, `\`) + scanner.Text()
		}

		line = stripComment(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "-r ") || strings.HasPrefix(line, "--requirement "),
			strings.HasPrefix(line, "-c ") || strings.HasPrefix(line, "--constraint "):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				f.Problems = append(f.Problems, Problem{startLine, "include line names no file"})
				continue
			}
			f.References = append(f.References, fields[1])
		case strings.HasPrefix(line, "-"):
			f.Options = append(f.Options, line)
		case isArchiveLine(line):
			f.Archives = append(f.Archives, line)
		default:
			req, problem := parseRequirement(line, startLine)
			if problem != nil {
				f.Problems = append(f.Problems, *problem)
				continue
			}
			f.Requirements = append(f.Requirements, req)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return f, nil
}

// isArchiveLine reports whether line names an archive URL or a local path
// instead of a distribution. Pip accepts both in requirements files and
// resolves them itself.
func isArchiveLine(line string) bool {
	if schemePattern.MatchString(line) {
		return true
	}
	return strings.HasPrefix(line, "./") || strings.HasPrefix(line, "../") ||
		strings.HasPrefix(line, "/") || strings.HasPrefix(line, "~/")
}

// stripComment removes a trailing comment. Pip only treats '#' as a comment
// at line start or after whitespace, which keeps URL fragments intact.
func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

func parseRequirement(line string, lineNo int) (Requirement, *Problem) {
	req := Requirement{Raw: line, Line: lineNo}

	rest := line
	if idx := strings.Index(rest, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(rest[idx+1:])
		rest = strings.TrimSpace(rest[:idx])
	}

	// PEP 508 direct reference: name @ url. The URL is pip's to interpret,
	// so only the name side is checked further.
	if name, url, ok := strings.Cut(rest, "@"); ok {
		req.URL = strings.TrimSpace(url)
		if req.URL == "" {
			return req, &Problem{lineNo, "direct reference has no URL"}
		}
		rest = strings.TrimSpace(name)
	} else if idx := strings.IndexAny(rest, "=<>!~"); idx >= 0 {
		// Split off the version specifier at the first operator character.
		spec := strings.TrimSpace(rest[idx:])
		if !specifierPattern.MatchString(spec) {
			return req, &Problem{lineNo, fmt.Sprintf("invalid version specifier %q", spec)}
		}
		req.Specifier = spec
		rest = strings.TrimSpace(rest[:idx])
	}

	// Extras: name[extra1,extra2]
	if idx := strings.Index(rest, "["); idx >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return req, &Problem{lineNo, fmt.Sprintf("unterminated extras in %q", rest)}
		}
		for _, extra := range strings.Split(rest[idx+1:len(rest)-1], ",") {
			extra = strings.TrimSpace(extra)
			if extra != "" {
				req.Extras = append(req.Extras, extra)
			}
		}
		rest = rest[:idx]
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return req, &Problem{lineNo, "requirement has no name"}
	}
	if !namePattern.MatchString(rest) {
		return req, &Problem{lineNo, fmt.Sprintf("invalid requirement name %q", rest)}
	}

	req.Name = rest
	return req, nil
}
