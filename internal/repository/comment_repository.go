package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

type CommentRepository interface {
	RemoveByPostID(ctx context.Context, postID int64) (int64, error)
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) RemoveByPostID(ctx context.Context, postID int64) (int64, error) {
	query := `DELETE FROM comments WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return removed, nil
}
