package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"unilink/backend/internal/model"
)

var ErrICSTooLarge = errors.New("The calendar file is too large.")

// ICS 拉取上限 5MB，避免恶意超大文件
const maxICSBytes = 5 << 20

var icsHTTPClient = &http.Client{Timeout: 30 * time.Second}

// fetchICSContent 拉取远端日历内容，webcal:// 按 https:// 处理
func fetchICSContent(url string) (io.ReadCloser, error) {
	if strings.HasPrefix(url, "webcal://") {
		url = "https://" + strings.TrimPrefix(url, "webcal://")
	}
	resp, err := icsHTTPClient.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("calendar server returned %d", resp.StatusCode)
	}
	return readCloser{io.LimitReader(resp.Body, maxICSBytes), resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// parseTimetableICS 把 iCalendar 事件压平为按周循环的课表条目。
// 同一(星期, 开始时间, 活动)只保留一条，跨周重复的课程自然归并。
func parseTimetableICS(r io.Reader) ([]model.TimetableEntry, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	type entryKey struct {
		day, start, activity string
	}
	seen := make(map[entryKey]struct{})
	var entries []model.TimetableEntry

	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			continue
		}
		activity := ""
		if prop := event.GetProperty(ics.ComponentPropertySummary); prop != nil {
			activity = strings.TrimSpace(prop.Value)
		}
		if activity == "" {
			continue
		}
		entry := model.TimetableEntry{
			Day:      start.Weekday().String(),
			Start:    start.Format("15:04"),
			End:      end.Format("15:04"),
			Activity: activity,
		}
		key := entryKey{entry.Day, entry.Start, entry.Activity}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := weekdayOrder(entries[i].Day), weekdayOrder(entries[j].Day)
		if di != dj {
			return di < dj
		}
		return entries[i].Start < entries[j].Start
	})
	return entries, nil
}

func weekdayOrder(day string) int {
	switch day {
	case "Monday":
		return 1
	case "Tuesday":
		return 2
	case "Wednesday":
		return 3
	case "Thursday":
		return 4
	case "Friday":
		return 5
	case "Saturday":
		return 6
	case "Sunday":
		return 7
	}
	return 8
}
