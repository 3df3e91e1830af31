package services

import (
	"strings"
	"testing"

	"github.com/sagile-io/sagile/backend/internal/models"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"project_name": "demo", "project_description": "A demo"}

	cases := []struct {
		in   string
		want string
	}{
		{"# {{project_name}}", "# demo"},
		{"# {{ project_name }}", "# demo"},
		{"{{  project_name  }} / {{project_description}}", "demo / A demo"},
		{"{{unknown_key}} stays", "{{unknown_key}} stays"},
		{"no placeholders", "no placeholders"},
		{"{{project_name}}{{project_name}}", "demodemo"},
	}
	for _, c := range cases {
		if got := substitute(c.in, vars); got != c.want {
			t.Errorf("substitute(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	raw := map[string]interface{}{
		"name":        "React App",
		"description": "A react starter",
		"category":    "frontend",
		"framework":   "react",
		"files": []interface{}{
			map[string]interface{}{
				"file_path": "src/App.js",
				"file_name": "App.js",
				"content":   "export default function App() {}",
			},
		},
	}
	if errs := ValidateDefinition(raw); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateDefinition_AccumulatesAllErrors(t *testing.T) {
	raw := map[string]interface{}{
		"category": "frontend",
		"files": []interface{}{
			map[string]interface{}{"file_path": "a.txt"},
		},
	}
	errs := ValidateDefinition(raw)

	want := []string{
		"Missing required field: name",
		"Missing required field: description",
		"Missing required field: framework",
		"File 1: Missing required field: file_name",
		"File 1: Missing required field: content",
	}
	for _, w := range want {
		found := false
		for _, e := range errs {
			if e == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected error %q in %v", w, errs)
		}
	}
	if len(errs) != len(want) {
		t.Errorf("len(errs) = %d, expected %d: %v", len(errs), len(want), errs)
	}
}

func TestValidateDefinition_FilesNotAList(t *testing.T) {
	raw := map[string]interface{}{
		"name":        "x",
		"description": "y",
		"category":    "z",
		"framework":   "w",
		"files":       "not-a-list",
	}
	errs := ValidateDefinition(raw)
	if len(errs) != 1 || errs[0] != "Files must be a list" {
		t.Errorf("errs = %v, expected exactly [Files must be a list]", errs)
	}
}

func TestValidateDefinition_MissingFiles(t *testing.T) {
	raw := map[string]interface{}{
		"name":        "x",
		"description": "y",
		"category":    "z",
		"framework":   "w",
	}
	errs := ValidateDefinition(raw)
	if len(errs) != 1 || errs[0] != "Missing required field: files" {
		t.Errorf("errs = %v", errs)
	}
}

func TestTemplateServiceCache(t *testing.T) {
	dir := t.TempDir()
	svc := NewTemplateService(nil, dir)

	if got := svc.List(""); len(got) != 0 {
		t.Fatalf("empty dir should yield no templates, got %v", got)
	}

	raw := map[string]interface{}{
		"name":        "Go API",
		"description": "A Go web service",
		"category":    "backend",
		"framework":   "gin",
		"files": []interface{}{
			map[string]interface{}{
				"file_path": "README.md",
				"file_name": "README.md",
				"content":   "# {{project_name}}\n\n{{project_description}}\n",
			},
		},
	}
	if _, err := svc.Create("go-api", raw); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	def, err := svc.Get("go-api")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if def.Name != "Go API" || len(def.Files) != 1 {
		t.Errorf("unexpected definition: %+v", def)
	}

	if _, err := svc.Create("go-api", raw); err == nil {
		t.Error("duplicate Create should fail")
	}

	// A second service instance against the same dir must see the file.
	svc2 := NewTemplateService(nil, dir)
	if _, err := svc2.Get("go-api"); err != nil {
		t.Errorf("template not persisted to disk: %v", err)
	}
}

func TestTemplateListCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	svc := NewTemplateService(nil, dir)

	mk := func(id, category string) map[string]interface{} {
		return map[string]interface{}{
			"name":        id,
			"description": "d",
			"category":    category,
			"framework":   "none",
			"files":       []interface{}{},
		}
	}
	if _, err := svc.Create("one", mk("one", "frontend")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create("two", mk("two", "backend")); err != nil {
		t.Fatal(err)
	}

	if got := svc.List(""); len(got) != 2 {
		t.Errorf("List(\"\") = %d entries, expected 2", len(got))
	}
	got := svc.List("backend")
	if len(got) != 1 || got[0].ID != "two" {
		t.Errorf("List(backend) = %v", got)
	}
	if got := svc.List("mobile"); len(got) != 0 {
		t.Errorf("List(mobile) = %v, expected empty", got)
	}
}

func TestPreviewTruncation(t *testing.T) {
	dir := t.TempDir()
	svc := NewTemplateService(nil, dir)

	// 490 filler chars push the 16-char placeholder across the 500-char cut.
	long := strings.Repeat("x", 490) + "{{project_name}}"
	raw := map[string]interface{}{
		"name":        "big",
		"description": "d",
		"category":    "misc",
		"framework":   "none",
		"files": []interface{}{
			map[string]interface{}{
				"file_path": "big.txt",
				"file_name": "big.txt",
				"content":   long,
			},
		},
	}
	if _, err := svc.Create("big", raw); err != nil {
		t.Fatal(err)
	}

	preview, err := svc.Preview("big", nil)
	if err != nil {
		t.Fatal(err)
	}
	content := preview.Files[0].Content
	if !strings.HasSuffix(content, "...") {
		t.Errorf("truncated content should end with ellipsis: %q", content[len(content)-10:])
	}
	// Truncation happens before substitution, so the placeholder is cut mid-way
	// and must survive unsubstituted.
	if strings.Contains(content, "my-project") {
		t.Error("substitution should not apply to the truncated remainder")
	}
}

func TestPreviewDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	svc := NewTemplateService(nil, dir)

	raw := map[string]interface{}{
		"name":        "readme",
		"description": "d",
		"category":    "misc",
		"framework":   "none",
		"files": []interface{}{
			map[string]interface{}{
				"file_path": "README.md",
				"file_name": "README.md",
				"content":   "# {{project_name}}: {{project_description}}",
			},
		},
	}
	if _, err := svc.Create("readme", raw); err != nil {
		t.Fatal(err)
	}

	preview, err := svc.Preview("readme", nil)
	if err != nil {
		t.Fatal(err)
	}
	if preview.Template.ID != "readme" || preview.Template.Framework != "none" {
		t.Errorf("preview summary = %+v", preview.Template)
	}
	if preview.Files[0].Content != "# my-project: My awesome project" {
		t.Errorf("default preview = %q", preview.Files[0].Content)
	}

	preview, err = svc.Preview("readme", map[string]string{"project_name": "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if preview.Files[0].Content != "# acme: My awesome project" {
		t.Errorf("overridden preview = %q", preview.Files[0].Content)
	}
}

func TestMaterialize(t *testing.T) {
	def := &TemplateDefinition{
		ID:        "starter",
		Name:      "Starter",
		Framework: "gin",
		Files: []TemplateFile{
			{FilePath: "README.md", FileName: "README.md", FileType: models.FileTypeDocumentation,
				Content: "# {{project_name}}\n\n{{project_description}}\n"},
			{FilePath: "main.go", FileName: "main.go",
				Content: "package main // {{project_name}}"},
		},
	}
	repo := &models.Repository{
		Name:              "acme-api",
		CreatedBy:         7,
		CreatedByUsername: "alice",
	}

	materialize(def, repo, nil)

	if !repo.IsInitialized {
		t.Error("repository should be marked initialized")
	}
	if repo.FileCount() != 2 {
		t.Fatalf("FileCount = %d, expected 2", repo.FileCount())
	}

	readme := repo.FileByPath("README.md")
	if readme == nil {
		t.Fatal("README.md not materialized")
	}
	want := "# acme-api\n\nA acme-api project\n"
	if readme.Content != want {
		t.Errorf("README content = %q, expected %q", readme.Content, want)
	}
	if readme.FileSize != int64(len(want)) {
		t.Errorf("FileSize = %d, expected %d", readme.FileSize, len(want))
	}
	if readme.LastModifiedBy != 7 || readme.LastModifiedByUsername != "alice" {
		t.Errorf("modifier = %d/%s, expected repository creator", readme.LastModifiedBy, readme.LastModifiedByUsername)
	}

	// Missing file_type falls back to code.
	mainGo := repo.FileByPath("main.go")
	if mainGo == nil || mainGo.FileType != models.FileTypeCode {
		t.Errorf("main.go = %+v, expected code file type", mainGo)
	}

	// Caller variables win over repository-derived defaults.
	repo2 := &models.Repository{Name: "acme-api", Description: "stored"}
	materialize(def, repo2, map[string]string{"project_name": "override"})
	got := repo2.FileByPath("README.md")
	if got == nil || got.Content != "# override\n\nstored\n" {
		t.Errorf("override content = %+v", got)
	}
}
