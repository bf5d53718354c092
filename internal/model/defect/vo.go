package defect

import "time"

// ProjectVO is the project a defect belongs to, as shown to clients.
type ProjectVO struct {
	ID          int64  `json:"id"`
	ProjectName string `json:"projectName"`
}

// DefectInfoVO is the read-only projection of a DefectInfo returned by the API.
type DefectInfoVO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ProjectID     int64     `json:"projectId"`
	Project       ProjectVO `json:"project"`
	DefectName    string    `json:"defectName"`
	DefectType    string    `json:"defectType"`
	DefectLevel   string    `json:"defectLevel"`
	DefectStatus  string    `json:"defectStatus"`
	DefectDetail  string    `json:"defectDetail"`
	DefectComment []string  `json:"defectComment"`
	IsToDo        string    `json:"isToDo"`
	CreateTime    time.Time `json:"createTime"`
	UpdateTime    time.Time `json:"updateTime"`
}

// Work groups the dashboard files defects under.
const (
	GroupToDo     = "TODO"
	GroupFinished = "FINISHED"
)

// ToView projects d for output.
func ToView(d *DefectInfo) DefectInfoVO {
	comments := d.DefectComment
	if comments == nil {
		comments = []string{}
	}
	group := GroupToDo
	if d.IsFixed() {
		group = GroupFinished
	}
	return DefectInfoVO{
		ID:        d.ID,
		UserID:    d.UserID,
		ProjectID: d.ProjectID,
		Project: ProjectVO{
			ID:          d.ProjectID,
			ProjectName: d.ProjectName,
		},
		DefectName:    d.DefectName,
		DefectType:    d.DefectType,
		DefectLevel:   d.DefectLevel,
		DefectStatus:  d.DefectStatus,
		DefectDetail:  d.DefectDetail,
		DefectComment: comments,
		IsToDo:        group,
		CreateTime:    d.CreatedAt,
		UpdateTime:    d.UpdatedAt,
	}
}

// ToViews projects list, keeping its order. The result is never nil so it
// encodes as [] rather than null.
func ToViews(list []DefectInfo) []DefectInfoVO {
	views := make([]DefectInfoVO, 0, len(list))
	for i := range list {
		views = append(views, ToView(&list[i]))
	}
	return views
}

// DefectStatsVO summarizes one owner's defects.
type DefectStatsVO struct {
	Total     int            `json:"total"`
	Fixed     int            `json:"fixed"`
	Todo      int            `json:"todo"`
	ByProject map[string]int `json:"byProject"`
	ByLevel   map[string]int `json:"byLevel"`
	ByStatus  map[string]int `json:"byStatus"`
}

// Summarize counts list by project name, level and status.
func Summarize(list []DefectInfo) DefectStatsVO {
	stats := DefectStatsVO{
		Total:     len(list),
		ByProject: map[string]int{},
		ByLevel:   map[string]int{},
		ByStatus:  map[string]int{},
	}
	for i := range list {
		d := &list[i]
		if d.IsFixed() {
			stats.Fixed++
		} else {
			stats.Todo++
		}
		stats.ByProject[d.ProjectName]++
		stats.ByLevel[d.DefectLevel]++
		stats.ByStatus[d.DefectStatus]++
	}
	return stats
}
