// Package defect contains the defect record, the request payloads the API
// accepts for it and the view models it answers with.
package defect

import "github.com/deppfellow/defect-service/internal/model"

// Severity levels, most severe first.
const (
	LevelCritical = "Critical"
	LevelHigh     = "High"
	LevelMedium   = "Medium"
	LevelLow      = "Low"
)

// Workflow states. Every state but StatusFixed counts as outstanding work.
const (
	StatusOpen       = "Open"
	StatusInProgress = "InProgress"
	StatusFixed      = "Fixed"
	StatusDeferred   = "Deferred"
	StatusNotABug    = "NotABug"
	StatusDuplicate  = "Duplicate"
)

// DefectInfo is a persisted defect record. UserID is the owner: only that
// user may list or search the record.
type DefectInfo struct {
	model.Base
	UserID        int64    `json:"userId" db:"user_id"`
	ProjectID     int64    `json:"projectId" db:"project_id"`
	ProjectName   string   `json:"projectName" db:"project_name"`
	DefectName    string   `json:"defectName" db:"defect_name"`
	DefectType    string   `json:"defectType" db:"defect_type"`
	DefectLevel   string   `json:"defectLevel" db:"defect_level"`
	DefectStatus  string   `json:"defectStatus" db:"defect_status"`
	DefectDetail  string   `json:"defectDetail" db:"defect_detail"`
	DefectComment []string `json:"defectComment" db:"defect_comment"`
}

// IsFixed reports whether the defect needs no further work.
func (d *DefectInfo) IsFixed() bool {
	return d.DefectStatus == StatusFixed
}
