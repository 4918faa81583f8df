package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"unilink/backend/internal/repository"
)

// ExportService 用户名册导出
type ExportService interface {
	// ExportUsers 导出全部用户为 xlsx，返回文件名与内容
	ExportUsers(ctx context.Context) (string, *bytes.Buffer, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportUsers(ctx context.Context) (string, *bytes.Buffer, error) {
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("导出用户名册失败", zap.Error(err))
		return "", nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Register No", "Role", "Department", "Status", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for i, u := range users {
		row := i + 2
		values := []interface{}{
			u.Name,
			u.Username,
			u.Role,
			u.Dept,
			u.Status,
			u.CreatedAt.Format("2006-01-02 15:04"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "A", "F", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成导出文件失败", zap.Error(err))
		return "", nil, err
	}

	filename := fmt.Sprintf("unilink_users_%s.xlsx", time.Now().Format("2006-01-02"))
	s.logger.Info("用户名册导出完成", zap.Int("count", len(users)))
	return filename, buf, nil
}
