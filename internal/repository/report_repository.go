package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"roadmate/backend/internal/model"
)

// sortColumns whitelists the sortable forum fields; it is the only source of
// column names interpolated into ORDER BY.
var sortColumns = map[string]string{
	"submittedAt": "submitted_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"status":      "status",
	"location":    "location",
}

// IsSortableReportField reports whether the forum can be sorted by field.
func IsSortableReportField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

type sqliteReportRepository struct {
	db *sql.DB
}

func NewSQLiteReportRepository(db *sql.DB) ReportRepository {
	return &sqliteReportRepository{db: db}
}

func (r *sqliteReportRepository) CreateReport(ctx context.Context, report *model.Report) error {
	photos, err := json.Marshal(report.Photos)
	if err != nil {
		return fmt.Errorf("could not encode photos: %w", err)
	}
	query := `
		INSERT INTO reports (id, description, location, photos, status, submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.Description, report.Location, string(photos), report.Status,
		report.SubmittedAt.UTC(), report.CreatedAt.UTC(), report.UpdatedAt.UTC(),
	)
	return err
}

func (r *sqliteReportRepository) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	query := `
		SELECT id, description, location, photos, status, submitted_at, created_at, updated_at
		FROM reports WHERE id = ?
	`
	report, err := scanReport(r.db.QueryRowContext(ctx, query, reportID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return report, err
}

func (r *sqliteReportRepository) ListReports(ctx context.Context, q model.ForumQuery) ([]model.Report, int, error) {
	var where []string
	var args []any
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.Location != "" {
		where = append(where, `location LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Location)+"%")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("could not count reports: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "submitted_at"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, description, location, photos, status, submitted_at, created_at, updated_at
		FROM reports%s
		ORDER BY %s %s, id %s
		LIMIT ? OFFSET ?
	`, clause, column, direction, direction)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *report)
	}
	return reports, total, rows.Err()
}

func (r *sqliteReportRepository) UpdateReportStatus(ctx context.Context, reportID, status string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE reports SET status = ?, updated_at = ? WHERE id = ?", status, at.UTC(), reportID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*model.Report, error) {
	var report model.Report
	var photos string
	err := row.Scan(&report.ID, &report.Description, &report.Location, &photos, &report.Status,
		&report.SubmittedAt, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(photos), &report.Photos); err != nil {
		return nil, fmt.Errorf("could not decode photos: %w", err)
	}
	return &report, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
