package defect

import (
	"github.com/deppfellow/defect-service/internal/validation"
)

// UpdateDefectRequest is a partial update of one defect. Nil fields are left
// untouched; DefectComment is appended to the record's comment list.
type UpdateDefectRequest struct {
	ID            int64   `json:"id" validate:"gt=0"`
	ProjectID     *int64  `json:"projectId" validate:"omitempty,gt=0"`
	DefectName    *string `json:"defectName" validate:"omitempty,min=1,max=128"`
	DefectType    *string `json:"defectType" validate:"omitempty,min=1,max=64"`
	DefectLevel   *string `json:"defectLevel" validate:"omitempty,oneof=Critical High Medium Low"`
	DefectStatus  *string `json:"defectStatus" validate:"omitempty,oneof=Open InProgress Fixed Deferred NotABug Duplicate"`
	DefectDetail  *string `json:"defectDetail" validate:"omitempty,max=4096"`
	DefectComment *string `json:"defectComment" validate:"omitempty,min=1,max=1024"`
}

// HasChanges reports whether the request sets at least one mutable field.
func (r *UpdateDefectRequest) HasChanges() bool {
	return r.ProjectID != nil ||
		r.DefectName != nil ||
		r.DefectType != nil ||
		r.DefectLevel != nil ||
		r.DefectStatus != nil ||
		r.DefectDetail != nil ||
		r.DefectComment != nil
}

func (r *UpdateDefectRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !r.HasChanges() {
		return validation.CustomValidationErrors{
			{Field: "id", Message: "at least one field to update is required"},
		}
	}
	return nil
}

// Sort fields accepted by QueryDefectRequest.SortField.
const (
	SortByID          = "id"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
	SortByDefectLevel = "defectLevel"
)

// QueryDefectRequest filters the defects of one owner. UserID names the
// owner and must be the caller. Empty filters match everything.
type QueryDefectRequest struct {
	UserID       int64  `json:"userId"`
	ProjectID    int64  `json:"projectId" validate:"min=0"`
	DefectName   string `json:"defectName" validate:"max=128"`
	DefectType   string `json:"defectType" validate:"max=64"`
	DefectLevel  string `json:"defectLevel" validate:"omitempty,oneof=Critical High Medium Low"`
	DefectStatus string `json:"defectStatus" validate:"omitempty,oneof=Open InProgress Fixed Deferred NotABug Duplicate"`
	SortField    string `json:"sortField" validate:"omitempty,oneof=id createdAt updatedAt defectLevel"`
	SortOrder    string `json:"sortOrder" validate:"omitempty,oneof=ascend descend"`
}

func (r *QueryDefectRequest) Validate() error {
	return validation.Struct(r)
}

// MyDefectsRequest is the empty body of the routes scoped to the caller's
// own defects; the caller comes from the session.
type MyDefectsRequest struct{}

func (r *MyDefectsRequest) Validate() error {
	return nil
}
