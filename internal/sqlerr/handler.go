package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/defect-service/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw *pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// tableEntities names the entity each table stores. Tables not listed fall
// back to a singularized table name.
var tableEntities = map[string]string{
	"defect_info": "defect",
	"projects":    "project",
	"users":       "user",
}

func entityForTable(tableName string) string {
	if entity, ok := tableEntities[tableName]; ok {
		return entity
	}
	if strings.HasSuffix(tableName, "s") && len(tableName) > 1 {
		return tableName[:len(tableName)-1]
	}
	return tableName
}

// constraintColumn infers the column a constraint guards from PostgreSQL's
// default names (<table>_<column>_fkey, _key, _check, _not_null) and from
// unique_<table>_<column>. The table prefix must be known to split the name.
func constraintColumn(tableName, constraintName string) string {
	name := constraintName
	unique := strings.HasPrefix(name, "unique_")
	if unique {
		name = strings.TrimPrefix(name, "unique_")
	} else {
		trimmed := false
		for _, suffix := range []string{"_fkey", "_ukey", "_key", "_check", "_not_null"} {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				trimmed = true
				break
			}
		}
		if !trimmed {
			return ""
		}
	}

	tables := []string{tableName}
	for table := range tableEntities {
		tables = append(tables, table)
	}
	for _, table := range tables {
		if table != "" && strings.HasPrefix(name, table+"_") {
			return strings.TrimPrefix(name, table+"_")
		}
	}
	return ""
}

// columnOf returns the column the error is about, if it can be told.
func columnOf(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return strings.ToLower(sqlErr.ColumnName)
	}
	return constraintColumn(sqlErr.TableName, sqlErr.ConstraintName)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	column := columnOf(sqlErr)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", referencedEntity(column))
	case UniqueViolation:
		identifier := "identifier"
		if column != "" {
			identifier = humanizeText(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", tableEntityName(sqlErr.TableName), identifier)
	case NotNullViolation:
		fieldName := humanizeText(column)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		if fieldName := humanizeText(column); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"
	case InvalidText, NumericOutOfRange:
		return "One or more values have an invalid format"
	default:
		return "An error occurred while processing your request"
	}
}

// referencedEntity names the target of a foreign key from its "*_id"
// column (project_id -> Project). The referencing table says nothing
// about the target, so without a column the entity stays generic.
func referencedEntity(column string) string {
	if strings.HasSuffix(column, "_id") {
		return humanizeText(strings.TrimSuffix(column, "_id"))
	}
	return "record"
}

func tableEntityName(tableName string) string {
	if tableName == "" {
		return "record"
	}
	return humanizeText(entityForTable(tableName))
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into an application error.
//
//   - *errs.HTTPError is returned unchanged.
//   - *pgconn.PgError becomes a 400 PARAMS_ERROR for constraint and format
//     violations, 500 otherwise.
//   - pgx.ErrNoRows / sql.ErrNoRows become a 404.
//   - anything else becomes a generic 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		userMessage := formatUserFriendlyMessage(sqlErr)

		// Every client-caused violation is a PARAMS_ERROR on the wire.
		switch sqlErr.Code {
		case ForeignKeyViolation, UniqueViolation, CheckViolation, InvalidText, NumericOutOfRange:
			return errs.NewBadRequestError(userMessage, true, nil, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{Field: columnOf(sqlErr), Error: "is required"},
			}
			return errs.NewBadRequestError(userMessage, true, nil, fieldErrors, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
