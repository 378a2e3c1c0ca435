package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/models"
)

// FallbackKey names the persisted list of projects that did not reach the database.
const FallbackKey = "temp_projects"

// FallbackStore keeps a single JSON list of projects in <dir>/temp_projects.json.
// Appends within one process are serialised; separate processes writing the
// same file are not coordinated and the last write wins.
type FallbackStore struct {
	mu   sync.Mutex
	path string
}

func NewFallbackStore(dir string) (*FallbackStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fallback directory %s: %w", dir, err)
	}
	return &FallbackStore{path: filepath.Join(dir, FallbackKey+".json")}, nil
}

func (s *FallbackStore) Path() string {
	return s.path
}

// Append adds a project to the end of the list
func (s *FallbackStore) Append(project models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.read()
	if err != nil {
		return err
	}
	projects = append(projects, project)
	return s.write(projects)
}

// All returns every stored project in insertion order
func (s *FallbackStore) All() ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// FindByIDForOwner returns nil when no stored project matches
func (s *FallbackStore) FindByIDForOwner(id uuid.UUID, userID string) (*models.Project, error) {
	projects, err := s.All()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id && projects[i].UserID == userID {
			return &projects[i], nil
		}
	}
	return nil, nil
}

func (s *FallbackStore) read() ([]models.Project, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []models.Project{}, nil
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return projects, nil
}

func (s *FallbackStore) write(projects []models.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode fallback projects: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FallbackKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
