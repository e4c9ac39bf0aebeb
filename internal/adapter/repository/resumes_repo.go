package repository

import (
	"context"
	"errors"

	"resume-analyzer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound is returned when a resume row does not exist.
var ErrNotFound = errors.New("not found")

type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

func (r *ResumesRepo) Save(ctx context.Context, res *domain.Resume) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, file_name, file_path, file_url, file_size, pages, uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, file_name = EXCLUDED.file_name, file_path = EXCLUDED.file_path, file_url = EXCLUDED.file_url, file_size = EXCLUDED.file_size, pages = EXCLUDED.pages, uploaded_at = EXCLUDED.uploaded_at`,
		res.ID, res.UserID, res.FileName, res.FilePath, res.FileURL, res.FileSize, res.Pages, res.UploadedAt)
	return err
}

func (r *ResumesRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	if r.pool == nil {
		return nil, ErrNotFound
	}

	var res domain.Resume
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, file_name, file_path, file_url, file_size, pages, uploaded_at
		FROM resumes WHERE id = $1`, id).
		Scan(&res.ID, &res.UserID, &res.FileName, &res.FilePath, &res.FileURL, &res.FileSize, &res.Pages, &res.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}
