package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ourdays/internal/domain"
)

type diaryRepository struct {
	DB DBTX
}

func NewDiaryRepository(db DBTX) domain.DiaryRepository {
	return &diaryRepository{DB: db}
}

// diarySelect yields one row per entry with its cover image. Callers append the WHERE clause.
const diarySelect = `
	SELECT d.id, d.couple_id, d.author_id, COALESCE(u.nickname, ''), d.title, d.content, d.mood, d.weather,
		d.record_date, d.visibility, d.scheduled_at, d.created_at, d.updated_at,
		(SELECT i.url FROM diary_images i WHERE i.diary_id = d.id ORDER BY i."order" ASC LIMIT 1)
	FROM diaries d
	JOIN users u ON u.id = d.author_id
`

// visibleToViewer restricts $1 couple rows to those viewer $2 may read at $3.
const visibleToViewer = `
	WHERE d.couple_id = $1 AND d.deleted_at IS NULL
	AND (d.author_id = $2 OR (d.visibility = 'BOTH' AND (d.scheduled_at IS NULL OR d.scheduled_at <= $3)))
`

func scanDiary(row interface{ Scan(...any) error }) (*domain.Diary, error) {
	d := &domain.Diary{}
	var mood, weather, cover sql.NullString
	var scheduledAt sql.NullTime
	err := row.Scan(
		&d.ID, &d.CoupleID, &d.AuthorID, &d.AuthorNickname, &d.Title, &d.Content, &mood, &weather,
		&d.RecordDate, &d.Visibility, &scheduledAt, &d.CreatedAt, &d.UpdatedAt, &cover,
	)
	if err != nil {
		return nil, err
	}
	d.Mood = stringPtr(mood)
	d.Weather = stringPtr(weather)
	d.ScheduledAt = timePtr(scheduledAt)
	d.CoverImageURL = stringPtr(cover)
	return d, nil
}

func (r *diaryRepository) Create(ctx context.Context, d *domain.Diary) error {
	query := `
		INSERT INTO diaries (couple_id, author_id, title, content, mood, weather, record_date, visibility, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		d.CoupleID, d.AuthorID, d.Title, d.Content, d.Mood, d.Weather, d.RecordDate, d.Visibility, d.ScheduledAt,
		d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *diaryRepository) GetByID(ctx context.Context, coupleID, id string) (*domain.Diary, error) {
	query := diarySelect + `WHERE d.id = $1 AND d.couple_id = $2 AND d.deleted_at IS NULL`
	d, err := scanDiary(r.DB.QueryRowContext(ctx, query, id, coupleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDiaryNotFound
		}
		return nil, err
	}
	if d.Images, err = r.listImages(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *diaryRepository) listImages(ctx context.Context, diaryID string) ([]domain.DiaryImage, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, url, "order" FROM diary_images WHERE diary_id = $1 ORDER BY "order" ASC`, diaryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []domain.DiaryImage{}
	for rows.Next() {
		var img domain.DiaryImage
		if err := rows.Scan(&img.ID, &img.URL, &img.Order); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *diaryRepository) Update(ctx context.Context, d *domain.Diary) error {
	query := `
		UPDATE diaries
		SET title = $1, content = $2, mood = $3, weather = $4, record_date = $5, visibility = $6, scheduled_at = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query,
		d.Title, d.Content, d.Mood, d.Weather, d.RecordDate, d.Visibility, d.ScheduledAt, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrDiaryNotFound)
}

func (r *diaryRepository) ReplaceImages(ctx context.Context, diaryID string, urls []string) ([]domain.DiaryImage, error) {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM diary_images WHERE diary_id = $1`, diaryID); err != nil {
		return nil, err
	}
	images := make([]domain.DiaryImage, 0, len(urls))
	for i, url := range urls {
		img := domain.DiaryImage{URL: url, Order: i}
		err := r.DB.QueryRowContext(ctx,
			`INSERT INTO diary_images (diary_id, url, "order") VALUES ($1, $2, $3) RETURNING id`, diaryID, url, i,
		).Scan(&img.ID)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (r *diaryRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE diaries SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrDiaryNotFound)
}

func (r *diaryRepository) ListVisible(ctx context.Context, coupleID, viewerID string, now time.Time, p domain.PageRequest) ([]*domain.Diary, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM diaries d `+visibleToViewer, coupleID, viewerID, now).Scan(&total); err != nil {
		return nil, 0, err
	}
	diaries, err := r.list(ctx, `LIMIT $4 OFFSET $5`, coupleID, viewerID, now, p.Size, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

func (r *diaryRepository) ListRecent(ctx context.Context, coupleID, viewerID string, now time.Time, limit int) ([]*domain.Diary, error) {
	return r.list(ctx, `LIMIT $4`, coupleID, viewerID, now, limit)
}

func (r *diaryRepository) list(ctx context.Context, limit string, args ...any) ([]*domain.Diary, error) {
	query := diarySelect + visibleToViewer + `ORDER BY d.record_date DESC, d.created_at DESC ` + limit
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	diaries := []*domain.Diary{}
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		diaries = append(diaries, d)
	}
	return diaries, rows.Err()
}
