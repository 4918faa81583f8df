package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
)

var ErrNoTimetableEvents = errors.New("No usable events found in the calendar file.")

// TimetableService 每周课表
//
// 课表整表存于用户行的 JSON 列；替换为整表覆盖（last write wins）。
type TimetableService interface {
	GetForUser(ctx context.Context, userID string) ([]model.TimetableEntry, error)
	Replace(ctx context.Context, userID string, entries []model.TimetableEntry) error
	// ImportICS 从 iCalendar 数据流解析课表并整表替换
	ImportICS(ctx context.Context, userID string, r io.Reader) ([]model.TimetableEntry, error)
	// ImportICSFromURL 拉取远端 ICS（支持 webcal://）后导入
	ImportICSFromURL(ctx context.Context, userID, url string) ([]model.TimetableEntry, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

func (s *timetableService) GetForUser(ctx context.Context, userID string) ([]model.TimetableEntry, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return []model.TimetableEntry(user.Timetable), nil
}

func (s *timetableService) Replace(ctx context.Context, userID string, entries []model.TimetableEntry) error {
	err := s.repo.User.UpdateFields(ctx, userID, map[string]interface{}{
		"timetable": datatypes.NewJSONSlice(entries),
	})
	if err != nil {
		s.logger.Error("替换课表失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *timetableService) ImportICS(ctx context.Context, userID string, r io.Reader) ([]model.TimetableEntry, error) {
	entries, err := parseTimetableICS(r)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoTimetableEvents
	}
	if err := s.Replace(ctx, userID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *timetableService) ImportICSFromURL(ctx context.Context, userID, url string) ([]model.TimetableEntry, error) {
	body, err := fetchICSContent(url)
	if err != nil {
		s.logger.Warn("拉取 ICS 失败", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer body.Close()
	return s.ImportICS(ctx, userID, body)
}
