package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"gamevault/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

// ListQuery is the filter/pagination input for Count and List. Both
// methods share one SQL builder so the count always matches the filters
// applied to the fetch.
type ListQuery struct {
	Name     string // case-insensitive substring match on title
	Platform string // case-insensitive substring match on the platforms string
	Limit    int
	Offset   int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const gameColumns = `id, title, description, platforms, release_date, rating, image_url`

// GetByNormalizedTitle finds the record whose lower-cased title equals
// normalizedTitle (exact match). Returns (nil, nil) when absent.
func (r *Repo) GetByNormalizedTitle(ctx context.Context, normalizedTitle string) (*models.Game, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE LOWER(title) = ?
	`, normalizedTitle)

	g, err := scanGame(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get by title: %w", err)
	}
	return g, nil
}

// Insert assigns an id and persists the record. A unique-title conflict
// is reported as ErrTitleExists so callers can distinguish the race from
// a broken store.
func (r *Repo) Insert(ctx context.Context, g *models.Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO games (id, title, description, platforms, release_date, rating, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Title,
		nullString(g.Description), nullString(g.Platforms), nullString(g.ReleaseDate),
		nullFloat(g.Rating), nullString(g.ImageURL))

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("insert %q: %w", g.Title, ErrTitleExists)
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Game, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Game, 0, q.Limit)
	for rows.Next() {
		g, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or SELECT list. The platform
// filter is a LIKE over the joined platforms string, so a platform name
// that is a substring of another ("PS" vs "PS5") also matches.
// Pagination args are applied verbatim; the HTTP layer owns clamping.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + gameColumns + ` FROM games`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM games`
	}

	var where []string
	var args []any

	if q.Name != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}

	if q.Platform != "" {
		where = append(where, "LOWER(platforms) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Platform)+"%")
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	return sqlStr, args
}

func scanGame(scan func(dest ...any) error) (*models.Game, error) {
	var (
		g           models.Game
		description sql.NullString
		platforms   sql.NullString
		releaseDate sql.NullString
		rating      sql.NullFloat64
		imageURL    sql.NullString
	)

	if err := scan(&g.ID, &g.Title, &description, &platforms, &releaseDate, &rating, &imageURL); err != nil {
		return nil, err
	}

	g.Description = description.String
	g.Platforms = platforms.String
	g.ReleaseDate = releaseDate.String
	g.Rating = rating.Float64
	g.ImageURL = imageURL.String
	return &g, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
