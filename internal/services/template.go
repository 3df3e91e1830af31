package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/pkg/logger"
	"github.com/sagile-io/sagile/backend/pkg/response"
	"gorm.io/gorm"
)

// previewContentLimit caps the amount of file content returned by Preview.
const previewContentLimit = 500

// TemplateFile is one file of a project template definition.
type TemplateFile struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type,omitempty"`
	Content  string `json:"content"`
}

// TemplateDefinition is a project scaffold loaded from a JSON file in the
// configured templates directory. The id is the file name without extension.
type TemplateDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Framework   string         `json:"framework"`
	Files       []TemplateFile `json:"files"`
}

// TemplateSummary is the list-view projection of a definition.
type TemplateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Framework   string `json:"framework"`
}

// TemplateService loads template definitions once at construction and serves
// them from an in-memory cache. Create updates both the cache and the
// directory under the write lock.
type TemplateService struct {
	db  *gorm.DB
	dir string

	mu    sync.RWMutex
	cache map[string]*TemplateDefinition
}

func NewTemplateService(db *gorm.DB, dir string) *TemplateService {
	s := &TemplateService{
		db:    db,
		dir:   dir,
		cache: make(map[string]*TemplateDefinition),
	}
	s.loadAll()
	return s
}

func (s *TemplateService) loadAll() {
	log := logger.Module("template")

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", s.dir).Msg("templates directory not readable")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable template")
			continue
		}
		var def TemplateDefinition
		if err := json.Unmarshal(data, &def); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping malformed template")
			continue
		}
		def.ID = strings.TrimSuffix(entry.Name(), ".json")
		s.cache[def.ID] = &def
	}

	log.Info().Int("count", len(s.cache)).Str("dir", s.dir).Msg("templates loaded")
}

// List returns template summaries, optionally filtered by exact category,
// sorted by id for stable output.
func (s *TemplateService) List(category string) []TemplateSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TemplateSummary, 0, len(s.cache))
	for _, def := range s.cache {
		if category != "" && def.Category != category {
			continue
		}
		out = append(out, TemplateSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Framework:   def.Framework,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the full definition for id.
func (s *TemplateService) Get(id string) (*TemplateDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.cache[id]
	if !ok {
		return nil, response.NewNotFound("template not found: " + id)
	}
	return def, nil
}

// PreviewFile is a template file with its content truncated and substituted
// for display.
type PreviewFile struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type,omitempty"`
	Content  string `json:"content"`
}

// TemplatePreview is the rendered preview of a template: its summary plus
// the files with truncated, substituted content.
type TemplatePreview struct {
	Template TemplateSummary `json:"template"`
	Files    []PreviewFile   `json:"files"`
}

// Preview renders the template with preview defaults. Content is truncated
// to 500 characters before substitution, matching how partial files are
// shown in the picker.
func (s *TemplateService) Preview(id string, vars map[string]string) (*TemplatePreview, error) {
	def, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	merged := map[string]string{
		"project_name":        "my-project",
		"project_description": "My awesome project",
	}
	for k, v := range vars {
		merged[k] = v
	}

	files := make([]PreviewFile, 0, len(def.Files))
	for _, f := range def.Files {
		content := f.Content
		if len(content) > previewContentLimit {
			content = content[:previewContentLimit] + "..."
		}
		files = append(files, PreviewFile{
			FilePath: f.FilePath,
			FileName: f.FileName,
			FileType: f.FileType,
			Content:  substitute(content, merged),
		})
	}
	return &TemplatePreview{
		Template: TemplateSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Framework:   def.Framework,
		},
		Files: files,
	}, nil
}

// Apply materializes the template into the repository's file store and marks
// it initialized. Caller variables override the repository-derived defaults.
func (s *TemplateService) Apply(repo *models.Repository, id string, vars map[string]string) error {
	def, err := s.Get(id)
	if err != nil {
		return err
	}
	materialize(def, repo, vars)
	return s.db.Save(repo).Error
}

// materialize writes the definition's files into the repository with
// substituted content and flips the initialized flag. The repository creator
// is stamped as the modifier.
func materialize(def *TemplateDefinition, repo *models.Repository, vars map[string]string) {
	description := repo.Description
	if description == "" {
		description = "A " + repo.Name + " project"
	}
	merged := map[string]string{
		"project_name":        repo.Name,
		"project_description": description,
	}
	for k, v := range vars {
		merged[k] = v
	}

	for _, f := range def.Files {
		content := substitute(f.Content, merged)
		fileType := f.FileType
		if !models.ValidFileType(fileType) {
			fileType = models.FileTypeCode
		}
		repo.UpsertFile(f.FilePath, f.FileName, fileType, int64(len(content)), &content,
			repo.CreatedBy, repo.CreatedByUsername)
	}

	repo.IsInitialized = true
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// substitute replaces {{ key }} placeholders, tolerating inner whitespace.
// Unknown keys pass through verbatim.
func substitute(content string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// ValidateDefinition checks a raw template document and accumulates every
// problem instead of stopping at the first.
func ValidateDefinition(raw map[string]interface{}) []string {
	var errs []string

	for _, field := range []string{"name", "description", "category", "framework"} {
		v, ok := raw[field].(string)
		if !ok || v == "" {
			errs = append(errs, "Missing required field: "+field)
		}
	}

	files, ok := raw["files"].([]interface{})
	if !ok {
		if _, present := raw["files"]; present {
			errs = append(errs, "Files must be a list")
		} else {
			errs = append(errs, "Missing required field: files")
		}
		return errs
	}

	for i, item := range files {
		file, ok := item.(map[string]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("File %d: must be an object", i+1))
			continue
		}
		for _, field := range []string{"file_path", "file_name", "content"} {
			if _, ok := file[field].(string); !ok {
				errs = append(errs, fmt.Sprintf("File %d: Missing required field: %s", i+1, field))
			}
		}
	}
	return errs
}

// Create validates the raw document, writes it to the templates directory,
// and registers it in the cache.
func (s *TemplateService) Create(id string, raw map[string]interface{}) (*TemplateDefinition, error) {
	if id == "" {
		return nil, response.NewBadRequest("template id required")
	}
	if errs := ValidateDefinition(raw); len(errs) > 0 {
		return nil, response.NewBadRequest(strings.Join(errs, "; "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[id]; exists {
		return nil, response.NewConflict("template already exists: " + id)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}

	var def TemplateDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, response.NewBadRequest("invalid template document: " + err.Error())
	}
	def.ID = id

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(s.dir, id+".json"), data, 0644); err != nil {
		return nil, err
	}

	s.cache[id] = &def
	return &def, nil
}
