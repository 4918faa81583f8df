package service

import (
	"strings"
	"testing"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Timetable//EN
BEGIN:VEVENT
UID:ev-1
DTSTART:20260302T091000Z
DTEND:20260302T100500Z
SUMMARY:Data Structures
END:VEVENT
BEGIN:VEVENT
UID:ev-2
DTSTART:20260303T140000Z
DTEND:20260303T160000Z
SUMMARY:Compiler Lab
END:VEVENT
BEGIN:VEVENT
UID:ev-3
DTSTART:20260302T081000Z
DTEND:20260302T090000Z
SUMMARY:Mathematics
END:VEVENT
END:VCALENDAR
`

func TestParseTimetableICS(t *testing.T) {
	entries, err := parseTimetableICS(strings.NewReader(sampleICS))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("期望 3 条课表条目，实际=%d", len(entries))
	}

	// 排序：先按星期，同日按开始时间
	if entries[0].Activity != "Mathematics" || entries[1].Activity != "Data Structures" {
		t.Errorf("周一课程应按开始时间排列: %s / %s", entries[0].Activity, entries[1].Activity)
	}
	if entries[0].Day != "Monday" || entries[2].Day != "Tuesday" {
		t.Errorf("星期解析不正确: %s / %s", entries[0].Day, entries[2].Day)
	}
	if entries[0].Start != "08:10" || entries[0].End != "09:00" {
		t.Errorf("时间格式应为 15:04: start=%s end=%s", entries[0].Start, entries[0].End)
	}
}

// 跨周重复的同一门课归并为一条
func TestParseTimetableICS_Dedupe(t *testing.T) {
	ics := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Timetable//EN
BEGIN:VEVENT
UID:ev-1
DTSTART:20260302T091000Z
DTEND:20260302T100500Z
SUMMARY:Data Structures
END:VEVENT
BEGIN:VEVENT
UID:ev-2
DTSTART:20260309T091000Z
DTEND:20260309T100500Z
SUMMARY:Data Structures
END:VEVENT
END:VCALENDAR
`
	entries, err := parseTimetableICS(strings.NewReader(ics))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("跨周重复课程应归并为 1 条，实际=%d", len(entries))
	}
}

// 无 SUMMARY 的事件跳过
func TestParseTimetableICS_SkipsUntitled(t *testing.T) {
	ics := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Timetable//EN
BEGIN:VEVENT
UID:ev-1
DTSTART:20260302T091000Z
DTEND:20260302T100500Z
END:VEVENT
END:VCALENDAR
`
	entries, err := parseTimetableICS(strings.NewReader(ics))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("无标题事件应被跳过，实际=%d", len(entries))
	}
}

func TestParseTimetableICS_Malformed(t *testing.T) {
	if _, err := parseTimetableICS(strings.NewReader("not a calendar")); err == nil {
		t.Error("非法输入应返回解析错误")
	}
}
