package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// Timelines sort by display order, then newest start first. Undated entries
// go last on both drivers.
const timelineOrder = ` ORDER BY sort_order ASC, COALESCE(start_date, '') DESC, created_at DESC`

const experienceColumns = `id, title, company, description, location, start_date, end_date, is_current,
	sort_order, created_at, updated_at`

func scanExperience(row rowScanner) (models.Experience, error) {
	var e models.Experience
	var desc, location, start, end sql.NullString
	err := row.Scan(&e.ID, &e.Title, &e.Company, &desc, &location, &start, &end, &e.IsCurrent,
		&e.Order, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Experience{}, err
	}
	e.Description = desc.String
	e.Location = location.String
	e.StartDate = datePtr(start)
	e.EndDate = datePtr(end)
	return e, nil
}

// CreateExperience stores a new experience. A current position has no end date.
func (s *ProfileService) CreateExperience(ctx context.Context, exp models.Experience) (models.Experience, error) {
	if exp.IsCurrent {
		exp.EndDate = nil
	}
	if err := checkPeriod(exp.StartDate, exp.EndDate); err != nil {
		return models.Experience{}, err
	}
	now := s.now().UTC()
	exp.ID = uuid.New().String()
	exp.CreatedAt = now
	exp.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO experiences (`+experienceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Title, exp.Company, nullString(exp.Description), nullString(exp.Location),
		nullDate(exp.StartDate), nullDate(exp.EndDate), exp.IsCurrent, exp.Order, exp.CreatedAt, exp.UpdatedAt)
	if err != nil {
		return models.Experience{}, fmt.Errorf("create experience: %w", database.Classify(err))
	}
	return exp, nil
}

// GetAllExperiences lists the career timeline.
func (s *ProfileService) GetAllExperiences(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+experienceColumns+` FROM experiences`+timelineOrder)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", database.Classify(err))
	}
	defer rows.Close()

	out := []models.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", database.Classify(err))
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list experiences: %w", database.Classify(err))
	}
	return out, nil
}

// GetExperienceByID retrieves a single experience.
func (s *ProfileService) GetExperienceByID(ctx context.Context, id string) (models.Experience, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = ?`, id)
	e, err := scanExperience(row)
	if err != nil {
		return models.Experience{}, fmt.Errorf("experience %s: %w", id, database.Classify(err))
	}
	return e, nil
}

// UpdateExperience merges patch into the stored experience. Setting an end
// date without isCurrent ends the position; marking it current drops the end date.
func (s *ProfileService) UpdateExperience(ctx context.Context, id string, patch models.ExperiencePatch) (models.Experience, error) {
	current, err := s.GetExperienceByID(ctx, id)
	if err != nil {
		return models.Experience{}, err
	}
	next := current.Apply(patch)
	if patch.EndDate != nil && patch.IsCurrent == nil {
		next.IsCurrent = false
	}
	if next.IsCurrent {
		next.EndDate = nil
	}
	if err := checkPeriod(next.StartDate, next.EndDate); err != nil {
		return models.Experience{}, err
	}
	next.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE experiences SET title = ?, company = ?, description = ?, location = ?, start_date = ?, end_date = ?,
			is_current = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		next.Title, next.Company, nullString(next.Description), nullString(next.Location),
		nullDate(next.StartDate), nullDate(next.EndDate), next.IsCurrent, next.Order, next.UpdatedAt, id)
	if err != nil {
		return models.Experience{}, fmt.Errorf("update experience %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.Experience{}, fmt.Errorf("update experience %s: %w", id, err)
	}
	return next, nil
}

// DeleteExperience removes an experience.
func (s *ProfileService) DeleteExperience(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "experiences", "experience", id)
}

const educationColumns = `id, degree, institution, field, description, start_date, end_date, certificate_url,
	sort_order, created_at, updated_at`

func scanEducation(row rowScanner) (models.Education, error) {
	var e models.Education
	var field, desc, start, end, cert sql.NullString
	err := row.Scan(&e.ID, &e.Degree, &e.Institution, &field, &desc, &start, &end, &cert,
		&e.Order, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Education{}, err
	}
	e.Field = field.String
	e.Description = desc.String
	e.StartDate = datePtr(start)
	e.EndDate = datePtr(end)
	e.CertificateURL = cert.String
	return e, nil
}

// CreateEducation stores a new education entry.
func (s *ProfileService) CreateEducation(ctx context.Context, edu models.Education) (models.Education, error) {
	if err := checkPeriod(edu.StartDate, edu.EndDate); err != nil {
		return models.Education{}, err
	}
	now := s.now().UTC()
	edu.ID = uuid.New().String()
	edu.CreatedAt = now
	edu.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO educations (`+educationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		edu.ID, edu.Degree, edu.Institution, nullString(edu.Field), nullString(edu.Description),
		nullDate(edu.StartDate), nullDate(edu.EndDate), nullString(edu.CertificateURL), edu.Order,
		edu.CreatedAt, edu.UpdatedAt)
	if err != nil {
		return models.Education{}, fmt.Errorf("create education: %w", database.Classify(err))
	}
	return edu, nil
}

// GetAllEducations lists education entries.
func (s *ProfileService) GetAllEducations(ctx context.Context) ([]models.Education, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+educationColumns+` FROM educations`+timelineOrder)
	if err != nil {
		return nil, fmt.Errorf("list educations: %w", database.Classify(err))
	}
	defer rows.Close()

	out := []models.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan education: %w", database.Classify(err))
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list educations: %w", database.Classify(err))
	}
	return out, nil
}

// GetEducationByID retrieves a single education entry.
func (s *ProfileService) GetEducationByID(ctx context.Context, id string) (models.Education, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+educationColumns+` FROM educations WHERE id = ?`, id)
	e, err := scanEducation(row)
	if err != nil {
		return models.Education{}, fmt.Errorf("education %s: %w", id, database.Classify(err))
	}
	return e, nil
}

// UpdateEducation merges patch into the stored education entry.
func (s *ProfileService) UpdateEducation(ctx context.Context, id string, patch models.EducationPatch) (models.Education, error) {
	current, err := s.GetEducationByID(ctx, id)
	if err != nil {
		return models.Education{}, err
	}
	next := current.Apply(patch)
	if err := checkPeriod(next.StartDate, next.EndDate); err != nil {
		return models.Education{}, err
	}
	next.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE educations SET degree = ?, institution = ?, field = ?, description = ?, start_date = ?, end_date = ?,
			certificate_url = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		next.Degree, next.Institution, nullString(next.Field), nullString(next.Description),
		nullDate(next.StartDate), nullDate(next.EndDate), nullString(next.CertificateURL), next.Order,
		next.UpdatedAt, id)
	if err != nil {
		return models.Education{}, fmt.Errorf("update education %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.Education{}, fmt.Errorf("update education %s: %w", id, err)
	}
	return next, nil
}

// DeleteEducation removes an education entry.
func (s *ProfileService) DeleteEducation(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "educations", "education", id)
}
