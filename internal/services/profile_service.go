package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// ProfileServiceProvider defines the interface for the owner's profile and
// its skills, experiences and educations.
type ProfileServiceProvider interface {
	CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (models.Profile, error)

	CreateSkill(ctx context.Context, skill models.Skill) (models.Skill, error)
	GetAllSkills(ctx context.Context, activeOnly bool) ([]models.Skill, error)
	GetSkillByID(ctx context.Context, id string) (models.Skill, error)
	UpdateSkill(ctx context.Context, id string, patch models.SkillPatch) (models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error

	CreateExperience(ctx context.Context, exp models.Experience) (models.Experience, error)
	GetAllExperiences(ctx context.Context) ([]models.Experience, error)
	GetExperienceByID(ctx context.Context, id string) (models.Experience, error)
	UpdateExperience(ctx context.Context, id string, patch models.ExperiencePatch) (models.Experience, error)
	DeleteExperience(ctx context.Context, id string) error

	CreateEducation(ctx context.Context, edu models.Education) (models.Education, error)
	GetAllEducations(ctx context.Context) ([]models.Education, error)
	GetEducationByID(ctx context.Context, id string) (models.Education, error)
	UpdateEducation(ctx context.Context, id string, patch models.EducationPatch) (models.Education, error)
	DeleteEducation(ctx context.Context, id string) error
}

// ProfileService provides business logic for the profile resources.
type ProfileService struct {
	db  *database.DB
	now func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db, now: time.Now}
}

const profileColumns = `id, full_name, title, bio, avatar, email, phone, location,
	social_links_json, resume_json, created_at, updated_at`

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var title, bio, avatar, email, phone, location, links, resume sql.NullString
	err := row.Scan(&p.ID, &p.FullName, &title, &bio, &avatar, &email, &phone, &location,
		&links, &resume, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Profile{}, err
	}
	p.Title = title.String
	p.Bio = bio.String
	p.Avatar = avatar.String
	p.Email = email.String
	p.Phone = phone.String
	p.Location = location.String
	p.SocialLinks = decodeObject[models.SocialLinks](links)
	p.Resume = decodeObject[models.Resume](resume)
	return p, nil
}

// CreateProfile stores a profile. It becomes the served profile.
func (s *ProfileService) CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	now := s.now().UTC()
	profile.ID = uuid.New().String()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.FullName, nullString(profile.Title), nullString(profile.Bio), nullString(profile.Avatar),
		nullString(profile.Email), nullString(profile.Phone), nullString(profile.Location),
		encodeObject(profile.SocialLinks), encodeObject(profile.Resume), profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return models.Profile{}, fmt.Errorf("create profile: %w", database.Classify(err))
	}
	return profile, nil
}

// GetProfile returns the most recently created profile.
func (s *ProfileService) GetProfile(ctx context.Context) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT 1`)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile: %w", database.Classify(err))
	}
	return p, nil
}

func (s *ProfileService) getProfileByID(ctx context.Context, id string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile %s: %w", id, database.Classify(err))
	}
	return p, nil
}

// UpdateProfile merges patch into the stored profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (models.Profile, error) {
	current, err := s.getProfileByID(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	next := current.Apply(patch)
	next.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET full_name = ?, title = ?, bio = ?, avatar = ?, email = ?, phone = ?, location = ?,
			social_links_json = ?, resume_json = ?, updated_at = ?
		 WHERE id = ?`,
		next.FullName, nullString(next.Title), nullString(next.Bio), nullString(next.Avatar), nullString(next.Email),
		nullString(next.Phone), nullString(next.Location), encodeObject(next.SocialLinks), encodeObject(next.Resume),
		next.UpdatedAt, id)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.Profile{}, fmt.Errorf("update profile %s: %w", id, err)
	}
	return next, nil
}

const skillColumns = `id, name, category, proficiency, icon, sort_order, is_active, created_at, updated_at`

func scanSkill(row rowScanner) (models.Skill, error) {
	var sk models.Skill
	var icon sql.NullString
	err := row.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Proficiency, &icon, &sk.Order, &sk.IsActive,
		&sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		return models.Skill{}, err
	}
	sk.Icon = icon.String
	return sk, nil
}

// CreateSkill stores a new skill.
func (s *ProfileService) CreateSkill(ctx context.Context, skill models.Skill) (models.Skill, error) {
	now := s.now().UTC()
	skill.ID = uuid.New().String()
	skill.CreatedAt = now
	skill.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (`+skillColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		skill.ID, skill.Name, skill.Category, skill.Proficiency, nullString(skill.Icon), skill.Order,
		skill.IsActive, skill.CreatedAt, skill.UpdatedAt)
	if err != nil {
		return models.Skill{}, fmt.Errorf("create skill: %w", database.Classify(err))
	}
	return skill, nil
}

// GetAllSkills lists skills grouped by category, then display order.
func (s *ProfileService) GetAllSkills(ctx context.Context, activeOnly bool) ([]models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills`
	var args []interface{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY category ASC, sort_order ASC, name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", database.Classify(err))
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", database.Classify(err))
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list skills: %w", database.Classify(err))
	}
	return skills, nil
}

// GetSkillByID retrieves a single skill.
func (s *ProfileService) GetSkillByID(ctx context.Context, id string) (models.Skill, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)
	sk, err := scanSkill(row)
	if err != nil {
		return models.Skill{}, fmt.Errorf("skill %s: %w", id, database.Classify(err))
	}
	return sk, nil
}

// UpdateSkill merges patch into the stored skill.
func (s *ProfileService) UpdateSkill(ctx context.Context, id string, patch models.SkillPatch) (models.Skill, error) {
	current, err := s.GetSkillByID(ctx, id)
	if err != nil {
		return models.Skill{}, err
	}
	next := current.Apply(patch)
	next.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE skills SET name = ?, category = ?, proficiency = ?, icon = ?, sort_order = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		next.Name, next.Category, next.Proficiency, nullString(next.Icon), next.Order, next.IsActive,
		next.UpdatedAt, id)
	if err != nil {
		return models.Skill{}, fmt.Errorf("update skill %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.Skill{}, fmt.Errorf("update skill %s: %w", id, err)
	}
	return next, nil
}

// DeleteSkill removes a skill.
func (s *ProfileService) DeleteSkill(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "skills", "skill", id)
}

// deleteRow removes one row by id from table. Only called with constant table names.
func (s *ProfileService) deleteRow(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	return nil
}

// checkPeriod rejects an end date before the start date.
func checkPeriod(start, end *models.Date) error {
	if start != nil && end != nil && end.Before(*start) {
		return &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "endDate", Message: "must not be before startDate"},
		}}
	}
	return nil
}
