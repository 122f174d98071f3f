package postgres

import (
	"context"
	"fmt"

	"yatube/internal/model"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

// FollowStorage keeps follow edges. The table has no unique constraint on
// (user_id, author_id); FollowExists is the only guard against duplicates.
type FollowStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewFollowStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *FollowStorage {
	return &FollowStorage{db: db, getter: getter}
}

func followEdge(userID, authorID int64) sq.Eq {
	return sq.Eq{
		tableinfo.FollowUserIDColumn:   userID,
		tableinfo.FollowAuthorIDColumn: authorID,
	}
}

func (s *FollowStorage) CreateFollow(ctx context.Context, userID, authorID int64) (model.Follow, error) {
	var out model.Follow

	query, args, err := sq.
		Insert(tableinfo.FollowsTableName).
		Columns(tableinfo.FollowUserIDColumn, tableinfo.FollowAuthorIDColumn).
		Values(userID, authorID).
		Suffix(fmt.Sprintf("RETURNING %s, %s, %s, %s",
			tableinfo.FollowIDColumn,
			tableinfo.FollowUserIDColumn,
			tableinfo.FollowAuthorIDColumn,
			tableinfo.FollowCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.UserID,
		&out.AuthorID,
		&out.CreatedAt,
	); err != nil {
		return out, fmt.Errorf("exec insert follow: %w", err)
	}

	return out, nil
}

func (s *FollowStorage) DeleteFollows(ctx context.Context, userID, authorID int64) (int64, error) {
	query, args, err := sq.
		Delete(tableinfo.FollowsTableName).
		Where(followEdge(userID, authorID)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec delete follows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *FollowStorage) FollowExists(ctx context.Context, userID, authorID int64) (bool, error) {
	query, args, err := sq.
		Select("1").
		From(tableinfo.FollowsTableName).
		Where(followEdge(userID, authorID)).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var exists bool
	if err := tr.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exec follow exists: %w", err)
	}
	return exists, nil
}

func (s *FollowStorage) GetFollowedAuthorIDs(ctx context.Context, userID int64) ([]int64, error) {
	query, args, err := sq.
		Select(tableinfo.FollowAuthorIDColumn).
		Distinct().
		From(tableinfo.FollowsTableName).
		Where(sq.Eq{tableinfo.FollowUserIDColumn: userID}).
		OrderBy(tableinfo.FollowAuthorIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select followed authors: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan author id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
