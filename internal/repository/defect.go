package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DefectRepository struct {
	pool *pgxpool.Pool
}

func NewDefectRepository(pool *pgxpool.Pool) *DefectRepository {
	return &DefectRepository{pool: pool}
}

const selectDefects = `
	SELECT d.id, d.user_id, d.project_id, p.project_name, d.defect_name, d.defect_type,
	       d.defect_level, d.defect_status, d.defect_detail, d.defect_comment,
	       d.created_at, d.updated_at
	FROM   defect_info d
	JOIN   projects p ON p.id = d.project_id`

// GetByID returns the defect with id, or nil when there is none.
func (r *DefectRepository) GetByID(ctx context.Context, id int64) (*defect.DefectInfo, error) {
	rows, err := r.pool.Query(ctx, selectDefects+" WHERE d.id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query defect %d: %w", id, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[defect.DefectInfo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to collect defect %d: %w", id, err)
	}
	return &d, nil
}

// UpdateByID applies the non-nil fields of req and reports whether a row
// changed. A comment is appended to defect_comment.
func (r *DefectRepository) UpdateByID(ctx context.Context, req *defect.UpdateDefectRequest) (bool, error) {
	sets := make([]string, 0, 7)
	args := pgx.NamedArgs{"id": req.ID}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = @%s", column, column))
		args[column] = value
	}
	if req.ProjectID != nil {
		set("project_id", *req.ProjectID)
	}
	if req.DefectName != nil {
		set("defect_name", *req.DefectName)
	}
	if req.DefectType != nil {
		set("defect_type", *req.DefectType)
	}
	if req.DefectLevel != nil {
		set("defect_level", *req.DefectLevel)
	}
	if req.DefectStatus != nil {
		set("defect_status", *req.DefectStatus)
	}
	if req.DefectDetail != nil {
		set("defect_detail", *req.DefectDetail)
	}
	if req.DefectComment != nil {
		sets = append(sets, "defect_comment = array_append(defect_comment, @defect_comment::text)")
		args["defect_comment"] = *req.DefectComment
	}

	if len(sets) == 0 {
		return false, nil
	}

	sql := "UPDATE defect_info SET " + strings.Join(sets, ", ") + " WHERE id = @id"
	tag, err := r.pool.Exec(ctx, sql, args)
	if err != nil {
		return false, fmt.Errorf("failed to update defect %d: %w", req.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByUserID returns every defect owned by userID, oldest first.
func (r *DefectRepository) FindByUserID(ctx context.Context, userID int64) ([]defect.DefectInfo, error) {
	rows, err := r.pool.Query(ctx,
		selectDefects+" WHERE d.user_id = @user_id ORDER BY d.id",
		pgx.NamedArgs{"user_id": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query defects of user %d: %w", userID, err)
	}

	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[defect.DefectInfo])
	if err != nil {
		return nil, fmt.Errorf("failed to collect defects of user %d: %w", userID, err)
	}
	return list, nil
}

const severityRank = `CASE d.defect_level WHEN 'Critical' THEN 3 WHEN 'High' THEN 2 WHEN 'Medium' THEN 1 ELSE 0 END`

// sortColumns whitelists the expressions QueryDefectRequest.SortField may
// select. Levels sort by severity rather than alphabetically, so
// "descend" puts Critical first.
var sortColumns = map[string]string{
	defect.SortByID:          "d.id",
	defect.SortByCreatedAt:   "d.created_at",
	defect.SortByUpdatedAt:   "d.updated_at",
	defect.SortByDefectLevel: severityRank,
}

// Query returns the defects of req.UserID matching the filters in req.
func (r *DefectRepository) Query(ctx context.Context, req *defect.QueryDefectRequest) ([]defect.DefectInfo, error) {
	sql, args := buildDefectQuery(req)

	rows, err := r.pool.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query defects: %w", err)
	}

	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[defect.DefectInfo])
	if err != nil {
		return nil, fmt.Errorf("failed to collect defects: %w", err)
	}
	return list, nil
}

func buildDefectQuery(req *defect.QueryDefectRequest) (string, pgx.NamedArgs) {
	conditions := []string{"d.user_id = @user_id"}
	args := pgx.NamedArgs{"user_id": req.UserID}

	if req.ProjectID > 0 {
		conditions = append(conditions, "d.project_id = @project_id")
		args["project_id"] = req.ProjectID
	}
	if name := strings.TrimSpace(req.DefectName); name != "" {
		conditions = append(conditions, "d.defect_name ILIKE @defect_name")
		args["defect_name"] = "%" + escapeLike(name) + "%"
	}
	if req.DefectType != "" {
		conditions = append(conditions, "d.defect_type = @defect_type")
		args["defect_type"] = req.DefectType
	}
	if req.DefectLevel != "" {
		conditions = append(conditions, "d.defect_level = @defect_level")
		args["defect_level"] = req.DefectLevel
	}
	if req.DefectStatus != "" {
		conditions = append(conditions, "d.defect_status = @defect_status")
		args["defect_status"] = req.DefectStatus
	}

	order := "d.id"
	if column, ok := sortColumns[req.SortField]; ok {
		direction := "DESC"
		if req.SortOrder == "ascend" {
			direction = "ASC"
		}
		order = fmt.Sprintf("%s %s, d.id", column, direction)
	}

	return selectDefects + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY " + order, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
