package postgres

import (
	"context"
	"fmt"
	"slices"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type CommentStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewCommentStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{db: db, getter: getter}
}

var commentColumns = []string{
	tableinfo.CommentIDColumn,
	tableinfo.CommentPostIDColumn,
	tableinfo.CommentAuthorIDColumn,
	tableinfo.CommentTextColumn,
	tableinfo.CommentCreatedAtColumn,
}

func commentCol(c string) string {
	return tableinfo.Qualified(tableinfo.CommentsTableName, c)
}

func joinedCommentColumns(alias string) []string {
	out := make([]string, 0, len(commentColumns)+1)
	for _, c := range commentColumns {
		out = append(out, tableinfo.Qualified(alias, c))
	}
	return append(out, tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserUsernameColumn))
}

func commentAuthorJoin(alias string) string {
	return fmt.Sprintf("%s ON %s = %s",
		tableinfo.UsersTableName,
		tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserIDColumn),
		tableinfo.Qualified(alias, tableinfo.CommentAuthorIDColumn),
	)
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.Text,
		&c.CreatedAt,
		&c.Author.Username,
	)
	c.Author.ID = c.AuthorID
	return c, err
}

func (s *CommentStorage) CreateComment(ctx context.Context, in model.Comment) (model.Comment, error) {
	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentPostIDColumn,
			tableinfo.CommentAuthorIDColumn,
			tableinfo.CommentTextColumn,
		).
		Values(in.PostID, in.AuthorID, in.Text).
		Prefix("WITH inserted AS (").
		Suffix(fmt.Sprintf("RETURNING %s) SELECT %s FROM inserted JOIN %s",
			joinColumns(commentColumns),
			joinColumns(joinedCommentColumns("inserted")),
			commentAuthorJoin("inserted"),
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanComment(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Comment{}, fmt.Errorf("exec insert comment: %w", err)
	}

	return out, nil
}

func selectComments() sq.SelectBuilder {
	return sq.
		Select(joinedCommentColumns(tableinfo.CommentsTableName)...).
		From(tableinfo.CommentsTableName).
		Join(commentAuthorJoin(tableinfo.CommentsTableName))
}

func (s *CommentStorage) GetCommentsByPost(ctx context.Context, postID int64, limit int) ([]model.Comment, error) {
	if limit <= 0 {
		limit = service.DefaultCommentsLimit
	}

	query, args, err := selectComments().
		Where(sq.Eq{commentCol(tableinfo.CommentPostIDColumn): postID}).
		OrderBy(
			commentCol(tableinfo.CommentCreatedAtColumn)+" DESC",
			commentCol(tableinfo.CommentIDColumn)+" DESC",
		).
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	return s.queryComments(ctx, limit, query, args...)
}

func getCommentsQueryBuilder(p storage.GetCommentsParams) (sq.SelectBuilder, error) {
	tuple := fmt.Sprintf("(%s, %s)",
		commentCol(tableinfo.CommentCreatedAtColumn),
		commentCol(tableinfo.CommentIDColumn),
	)

	var op, order string
	switch p.Direction {
	case storage.DirectionAfter:
		op, order = "<", "DESC"
	case storage.DirectionBefore:
		op, order = ">", "ASC"
	default:
		return sq.SelectBuilder{}, storage.ErrDirectionUnset
	}

	return selectComments().
		Where(sq.And{
			sq.Eq{commentCol(tableinfo.CommentPostIDColumn): p.PostID},
			sq.Expr(tuple+" "+op+" (?, ?)", p.Cursor.CreatedAt, p.Cursor.ID),
		}).
		OrderBy(
			commentCol(tableinfo.CommentCreatedAtColumn)+" "+order,
			commentCol(tableinfo.CommentIDColumn)+" "+order,
		).
		Limit(uint64(p.Limit)).
		PlaceholderFormat(sq.Dollar), nil
}

func (s *CommentStorage) GetCommentsByPostWithCursor(ctx context.Context, p storage.GetCommentsParams) ([]model.Comment, error) {
	qb, err := getCommentsQueryBuilder(p)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := s.queryComments(ctx, p.Limit, query, args...)
	if err != nil {
		return nil, err
	}

	// before-pages are read oldest first
	if p.Direction == storage.DirectionBefore {
		slices.Reverse(out)
	}
	return out, nil
}

func (s *CommentStorage) queryComments(ctx context.Context, capHint int, query string, args ...any) ([]model.Comment, error) {
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select comments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Comment, 0, capHint)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
