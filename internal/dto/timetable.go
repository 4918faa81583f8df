package dto

import "unilink/backend/internal/model"

// ReplaceTimetableRequest 整表替换本人课表
type ReplaceTimetableRequest struct {
	Entries []TimetableEntryRequest `json:"entries" binding:"required,dive"`
}

// TimetableEntryRequest 课表条目
type TimetableEntryRequest struct {
	Day      string `json:"day"      binding:"required"`
	Start    string `json:"start"    binding:"required"`
	End      string `json:"end"      binding:"required"`
	Activity string `json:"activity" binding:"required"`
}

// ToModel 转为模型条目
func (r *ReplaceTimetableRequest) ToModel() []model.TimetableEntry {
	entries := make([]model.TimetableEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, model.TimetableEntry{
			Day:      e.Day,
			Start:    e.Start,
			End:      e.End,
			Activity: e.Activity,
		})
	}
	return entries
}

// ImportTimetableRequest 从 ICS 链接导入课表
type ImportTimetableRequest struct {
	URL string `json:"url" binding:"required,url"`
}
