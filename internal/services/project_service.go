package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	GetAllProjects(ctx context.Context, publishedOnly bool) ([]models.Project, error)
	GetProjectByID(ctx context.Context, id string) (models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ProjectService provides business logic for project management.
type ProjectService struct {
	db *database.DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db}
}

const projectColumns = `id, title, description, content, image_url, live_url, github_url,
	technologies_json, status, sort_order, is_published, created_at, updated_at`

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	var desc, content, imageURL, liveURL, githubURL sql.NullString
	var technologies string
	err := row.Scan(&p.ID, &p.Title, &desc, &content, &imageURL, &liveURL, &githubURL,
		&technologies, &p.Status, &p.Order, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	p.Description = desc.String
	p.Content = content.String
	p.ImageURL = imageURL.String
	p.LiveURL = liveURL.String
	p.GithubURL = githubURL.String
	p.Technologies = decodeStrings(technologies)
	return p, nil
}

// GetAllProjects retrieves projects ordered for display.
func (s *ProjectService) GetAllProjects(ctx context.Context, publishedOnly bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []interface{}
	if publishedOnly {
		query += ` WHERE is_published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", database.Classify(err))
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", database.Classify(err))
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", database.Classify(err))
	}
	return projects, nil
}

// GetProjectByID retrieves a single project.
func (s *ProjectService) GetProjectByID(ctx context.Context, id string) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return models.Project{}, fmt.Errorf("project %s: %w", id, database.Classify(err))
	}
	return p, nil
}

// CreateProject stores a new project. Status defaults to "active".
func (s *ProjectService) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	now := time.Now().UTC()
	project.ID = uuid.New().String()
	if project.Status == "" {
		project.Status = "active"
	}
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Title, nullString(project.Description), nullString(project.Content),
		nullString(project.ImageURL), nullString(project.LiveURL), nullString(project.GithubURL),
		encodeStrings(project.Technologies), project.Status, project.Order, project.IsPublished,
		project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", database.Classify(err))
	}
	return project, nil
}

// UpdateProject merges patch into the stored project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	current, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	next := current.Apply(patch)
	next.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET title = ?, description = ?, content = ?, image_url = ?, live_url = ?, github_url = ?,
			technologies_json = ?, status = ?, sort_order = ?, is_published = ?, updated_at = ?
		 WHERE id = ?`,
		next.Title, nullString(next.Description), nullString(next.Content), nullString(next.ImageURL),
		nullString(next.LiveURL), nullString(next.GithubURL), encodeStrings(next.Technologies),
		next.Status, next.Order, next.IsPublished, next.UpdatedAt, id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.Project{}, fmt.Errorf("update project %s: %w", id, err)
	}
	return next, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}
