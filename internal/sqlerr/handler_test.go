package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/defect-service/internal/errs"
)

func TestHandleError_PgErrors(t *testing.T) {
	testCases := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantMsg string
	}{
		{
			name: "foreign key with column",
			pgErr: &pgconn.PgError{
				Code: "23503", Severity: "ERROR", TableName: "defect_info", ColumnName: "project_id",
			},
			wantMsg: "The referenced Project does not exist",
		},
		{
			name: "foreign key named only by constraint",
			pgErr: &pgconn.PgError{
				Code: "23503", Severity: "ERROR", TableName: "defect_info", ConstraintName: "defect_info_project_id_fkey",
			},
			wantMsg: "The referenced Project does not exist",
		},
		{
			name: "foreign key without any hint",
			pgErr: &pgconn.PgError{
				Code: "23503", Severity: "ERROR", TableName: "defect_info",
			},
			wantMsg: "The referenced record does not exist",
		},
		{
			name: "unique email",
			pgErr: &pgconn.PgError{
				Code: "23505", Severity: "ERROR", TableName: "users", ConstraintName: "users_email_key",
			},
			wantMsg: "A User with this Email already exists",
		},
		{
			name: "unique auth id",
			pgErr: &pgconn.PgError{
				Code: "23505", Severity: "ERROR", TableName: "users", ConstraintName: "users_auth_id_key",
			},
			wantMsg: "A User with this Auth Id already exists",
		},
		{
			name: "not null",
			pgErr: &pgconn.PgError{
				Code: "23502", Severity: "ERROR", TableName: "defect_info", ColumnName: "defect_name",
			},
			wantMsg: "The Defect Name is required",
		},
		{
			name: "check violation",
			pgErr: &pgconn.PgError{
				Code: "23514", Severity: "ERROR", TableName: "defect_info", ConstraintName: "defect_info_defect_level_check",
			},
			wantMsg: "The Defect Level value does not meet required conditions",
		},
		{
			name:    "invalid text",
			pgErr:   &pgconn.PgError{Code: "22P02", Severity: "ERROR"},
			wantMsg: "One or more values have an invalid format",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("update defect: %w", tc.pgErr))
			var httpErr *errs.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *errs.HTTPError, got %T", err)
			}
			if httpErr.Status != http.StatusBadRequest || httpErr.Code != errs.CodeParams {
				t.Errorf("got %d %q, want 400 %q", httpErr.Status, httpErr.Code, errs.CodeParams)
			}
			if httpErr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", httpErr.Message, tc.wantMsg)
			}
		})
	}
}

func TestHandleError_NoRowsIsNotFound(t *testing.T) {
	err := HandleError(pgx.ErrNoRows)
	if errs.CodeOf(err) != errs.CodeNotFound {
		t.Errorf("code = %q, want %q", errs.CodeOf(err), errs.CodeNotFound)
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	orig := errs.NewUnauthorizedError("no session", false)
	if got := HandleError(orig); got != orig {
		t.Errorf("HandleError replaced an HTTPError: %v", got)
	}
}

func TestHandleError_UnknownIsInternal(t *testing.T) {
	if got := errs.CodeOf(HandleError(errors.New("connection reset"))); got != errs.CodeSystem {
		t.Errorf("code = %q, want %q", got, errs.CodeSystem)
	}
}

func TestMapCodeAndSeverity(t *testing.T) {
	if MapCode("23505") != UniqueViolation {
		t.Error("23505 should map to UniqueViolation")
	}
	if MapCode("99999") != Other {
		t.Error("unknown SQLSTATE should map to Other")
	}
	if MapSeverity("FATAL") != SeverityFatal {
		t.Error("FATAL should map to SeverityFatal")
	}
	if MapSeverity("weird") != SeverityError {
		t.Error("unknown severity should default to ERROR")
	}
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23503"})
	if ErrCode(fmt.Errorf("wrap: %w", converted)) != ForeignKeyViolation {
		t.Error("ErrCode should unwrap to the converted code")
	}
	if ErrCode(errors.New("x")) != Other {
		t.Error("ErrCode of a plain error should be Other")
	}
}

func TestConstraintColumn(t *testing.T) {
	testCases := []struct {
		table      string
		constraint string
		want       string
	}{
		{"users", "unique_users_email", "email"},
		{"users", "users_auth_id_key", "auth_id"},
		{"projects", "projects_project_name_key", "project_name"},
		{"defect_info", "defect_info_project_id_fkey", "project_id"},
		{"", "defect_info_user_id_fkey", "user_id"},
		{"defect_info", "defect_info_defect_status_check", "defect_status"},
		{"users", "pk_users", ""},
		{"", "orders_customer_id_fkey", ""},
		{"users", "", ""},
	}
	for _, tc := range testCases {
		if got := constraintColumn(tc.table, tc.constraint); got != tc.want {
			t.Errorf("constraintColumn(%q, %q) = %q, want %q", tc.table, tc.constraint, got, tc.want)
		}
	}
}
