package postgres

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type PostStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

var postColumns = []string{
	tableinfo.PostIDColumn,
	tableinfo.PostTextColumn,
	tableinfo.PostAuthorIDColumn,
	tableinfo.PostGroupIDColumn,
	tableinfo.PostImageColumn,
	tableinfo.PostCreatedAtColumn,
}

// joinedPostColumns selects a post together with its author's username.
func joinedPostColumns(alias string) []string {
	out := make([]string, 0, len(postColumns)+1)
	for _, c := range postColumns {
		out = append(out, tableinfo.Qualified(alias, c))
	}
	return append(out, tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserUsernameColumn))
}

func authorJoin(alias string) string {
	return fmt.Sprintf("%s ON %s = %s",
		tableinfo.UsersTableName,
		tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserIDColumn),
		tableinfo.Qualified(alias, tableinfo.PostAuthorIDColumn),
	)
}

// withAuthorSuffix turns an INSERT/UPDATE ... RETURNING into a CTE joined with users.
func withAuthorSuffix(cte string) string {
	return fmt.Sprintf("RETURNING %s) SELECT %s FROM %s JOIN %s",
		joinColumns(postColumns),
		joinColumns(joinedPostColumns(cte)),
		cte,
		authorJoin(cte),
	)
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Text,
		&p.AuthorID,
		&p.GroupID,
		&p.Image,
		&p.CreatedAt,
		&p.Author.Username,
	)
	p.Author.ID = p.AuthorID
	return p, err
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTextColumn,
			tableinfo.PostAuthorIDColumn,
			tableinfo.PostGroupIDColumn,
			tableinfo.PostImageColumn,
		).
		Values(in.Text, in.AuthorID, in.GroupID, in.Image).
		Prefix("WITH inserted AS (").
		Suffix(withAuthorSuffix("inserted")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, fmt.Errorf("exec error creating post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTextColumn, in.Text).
		Set(tableinfo.PostGroupIDColumn, in.GroupID).
		Set(tableinfo.PostImageColumn, in.Image).
		Where(sq.Eq{tableinfo.PostIDColumn: in.ID}).
		Prefix("WITH updated AS (").
		Suffix(withAuthorSuffix("updated")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := sq.
		Select(joinedPostColumns(tableinfo.PostsTableName)...).
		From(tableinfo.PostsTableName).
		Join(authorJoin(tableinfo.PostsTableName)).
		Where(sq.Eq{tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn): postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

func applyPostFilter(qb sq.SelectBuilder, f storage.PostFilter) sq.SelectBuilder {
	col := func(c string) string { return tableinfo.Qualified(tableinfo.PostsTableName, c) }

	if f.AuthorID != nil {
		qb = qb.Where(sq.Eq{col(tableinfo.PostAuthorIDColumn): *f.AuthorID})
	}
	if f.GroupID != nil {
		qb = qb.Where(sq.Eq{col(tableinfo.PostGroupIDColumn): *f.GroupID})
	}
	if len(f.AuthorIDs) > 0 {
		qb = qb.Where(sq.Eq{col(tableinfo.PostAuthorIDColumn): f.AuthorIDs})
	}
	return qb
}

func (s *PostStorage) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	query, args, err := applyPostFilter(
		sq.Select("COUNT(*)").From(tableinfo.PostsTableName),
		filter,
	).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var n int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("exec count posts: %w", err)
	}
	return int(n), nil
}

func listPostsQueryBuilder(params storage.ListPostsParams) sq.SelectBuilder {
	qb := sq.
		Select(joinedPostColumns(tableinfo.PostsTableName)...).
		From(tableinfo.PostsTableName).
		Join(authorJoin(tableinfo.PostsTableName))

	qb = applyPostFilter(qb, params.Filter).
		OrderBy(
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostCreatedAtColumn)+" DESC",
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn)+" DESC",
		)

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}
	return qb.PlaceholderFormat(sq.Dollar)
}

func (s *PostStorage) ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	query, args, err := listPostsQueryBuilder(params).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, max(params.Limit, 0))
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
