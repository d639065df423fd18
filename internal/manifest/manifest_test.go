// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse_Requirements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Requirement
	}{
		{
			name:  "bare name",
			input: "markdown",
			want:  Requirement{Name: "markdown", Raw: "markdown", Line: 1},
		},
		{
			name:  "pinned version",
			input: "markdown==3.5.2",
			want:  Requirement{Name: "markdown", Specifier: "==3.5.2", Raw: "markdown==3.5.2", Line: 1},
		},
		{
			name:  "range specifier",
			input: "Jinja2>=3.0,<4",
			want:  Requirement{Name: "Jinja2", Specifier: ">=3.0,<4", Raw: "Jinja2>=3.0,<4", Line: 1},
		},
		{
			name:  "compatible release",
			input: "PyYAML~=6.0",
			want:  Requirement{Name: "PyYAML", Specifier: "~=6.0", Raw: "PyYAML~=6.0", Line: 1},
		},
		{
			name:  "extras",
			input: "uvicorn[standard]==0.27.0",
			want: Requirement{
				Name: "uvicorn", Extras: []string{"standard"},
				Specifier: "==0.27.0", Raw: "uvicorn[standard]==0.27.0", Line: 1,
			},
		},
		{
			name:  "environment marker",
			input: `colorama==0.4.6; sys_platform == "win32"`,
			want: Requirement{
				Name: "colorama", Specifier: "==0.4.6",
				Marker: `sys_platform == "win32"`,
				Raw:    `colorama==0.4.6; sys_platform == "win32"`, Line: 1,
			},
		},
		{
			name:  "trailing comment stripped",
			input: "markdown==3.5.2  # html rendering",
			want:  Requirement{Name: "markdown", Specifier: "==3.5.2", Raw: "markdown==3.5.2", Line: 1},
		},
		{
			name:  "direct reference",
			input: "requests @ https://example.com/requests-2.31.0.tar.gz",
			want: Requirement{
				Name: "requests",
				URL:  "https://example.com/requests-2.31.0.tar.gz",
				Raw:  "requests @ https://example.com/requests-2.31.0.tar.gz",
				Line: 1,
			},
		},
		{
			name:  "direct reference with extras",
			input: "uvicorn[standard] @ git+ssh://git@github.com/encode/uvicorn.git",
			want: Requirement{
				Name: "uvicorn", Extras: []string{"standard"},
				URL:  "git+ssh://git@github.com/encode/uvicorn.git",
				Raw:  "uvicorn[standard] @ git+ssh://git@github.com/encode/uvicorn.git",
				Line: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !f.Valid() {
				t.Fatalf("Parse() problems = %v, want none", f.Problems)
			}
			if len(f.Requirements) != 1 {
				t.Fatalf("Parse() requirements = %d, want 1", len(f.Requirements))
			}
			if got := f.Requirements[0]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_SkipsBlankAndCommentLines(t *testing.T) {
	input := `
# build dependencies
markdown==3.5.2

  # indented comment
pygments
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Requirements) != 2 {
		t.Fatalf("Parse() requirements = %d, want 2", len(f.Requirements))
	}
	if f.Requirements[1].Name != "pygments" || f.Requirements[1].Line != 6 {
		t.Errorf("second requirement = %+v", f.Requirements[1])
	}
}

func TestParse_Continuations(t *testing.T) {
	input := "markdown==\\\n3.5.2\n"
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.Valid() || len(f.Requirements) != 1 {
		t.Fatalf("Parse() = %+v", f)
	}
	if f.Requirements[0].Specifier != "==3.5.2" {
		t.Errorf("Specifier = %q, want ==3.5.2", f.Requirements[0].Specifier)
	}
}

func TestParse_IncludesAndOptions(t *testing.T) {
	input := `-r base.txt
-c constraints.txt
--index-url https://pypi.internal/simple
-e ./vendor/localpkg
markdown
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := []string{"base.txt", "constraints.txt"}; !reflect.DeepEqual(f.References, want) {
		t.Errorf("References = %v, want %v", f.References, want)
	}
	if len(f.Options) != 2 {
		t.Errorf("Options = %v, want 2 entries", f.Options)
	}
	if len(f.Requirements) != 1 {
		t.Errorf("Requirements = %v, want 1 entry", f.Requirements)
	}
}

func TestParse_ArchiveLines(t *testing.T) {
	input := `https://example.com/markdown-3.5.2.tar.gz
./vendor/localpkg
../shared/otherpkg
/opt/wheels/pkg-1.0-py3-none-any.whl
git+https://github.com/org/pkg.git@v1.2.0
markdown
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.Valid() {
		t.Fatalf("Parse() problems = %v, archive and path lines are pip's to resolve", f.Problems)
	}
	if len(f.Archives) != 5 {
		t.Errorf("Archives = %v, want 5 entries", f.Archives)
	}
	if len(f.Requirements) != 1 || f.Requirements[0].Name != "markdown" {
		t.Errorf("Requirements = %+v, want just markdown", f.Requirements)
	}
}

func TestParse_Problems(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"name with spaces", "not a package", "invalid requirement name"},
		{"leading dot name", ".hidden-pkg", "invalid requirement name"},
		{"bad specifier", "markdown=3.5", "invalid version specifier"},
		{"unterminated extras", "uvicorn[standard", "unterminated extras"},
		{"direct reference without URL", "requests @", "direct reference has no URL"},
		{"empty include", "-r", "include line names no file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if f.Valid() {
				t.Fatal("Parse() reported valid, want problem")
			}
			if !strings.Contains(f.Problems[0].Message, tt.wantMsg) {
				t.Errorf("problem = %q, want containing %q", f.Problems[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("markdown==3.5.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Path != path {
		t.Errorf("Path = %q, want %q", f.Path, path)
	}
	if len(f.Requirements) != 1 {
		t.Errorf("Requirements = %d, want 1", len(f.Requirements))
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}
