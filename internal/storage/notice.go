package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermagic/shop/internal/domain/models"
)

var ErrNoticeNotFound = errors.New("notice not found")

// NoticeStorage описывает методы для работы с объявлениями витрины.
type NoticeStorage interface {
	ListNotices(ctx context.Context) ([]*models.Notice, error)
	CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error)
	UpdateNotice(ctx context.Context, notice *models.Notice) error
	DeleteNotice(ctx context.Context, id int64) error
}

type noticeRepository struct {
	db *sql.DB
}

func NewNoticeRepository(db *sql.DB) NoticeStorage {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) ListNotices(ctx context.Context) ([]*models.Notice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, content, image, created_at FROM notices ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		notice := &models.Notice{}
		if err := rows.Scan(&notice.ID, &notice.Title, &notice.Content, &notice.Image, &notice.CreatedAt); err != nil {
			return nil, err
		}
		notices = append(notices, notice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO notices (title, content, image, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id, created_at",
		notice.Title, notice.Content, notice.Image,
	).Scan(&notice.ID, &notice.CreatedAt)
	if err != nil {
		return nil, err
	}
	return notice, nil
}

func (r *noticeRepository) UpdateNotice(ctx context.Context, notice *models.Notice) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notices SET title = $1, content = $2, image = $3 WHERE id = $4",
		notice.Title, notice.Content, notice.Image, notice.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoticeNotFound
	}
	return nil
}

func (r *noticeRepository) DeleteNotice(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notices WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoticeNotFound
	}
	return nil
}
