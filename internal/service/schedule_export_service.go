package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/golang-sql/civil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marcacion/backend/config"
	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/repository"
	apperrors "marcacion/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ScheduleExportService 排班导出业务接口
//
// 导出内容直接取自解析结果，不另行计算：
//   - Excel：单个 Sheet，每个有排班的日期一行
//   - iCalendar：每个有排班的日期一个 VEVENT，时刻按 schedule.timezone 解释
type ScheduleExportService interface {
	ExportWeekXLSX(ctx context.Context, employeeID int64, startISO, endISO string) (*bytes.Buffer, string, error)
	ExportWeekICS(ctx context.Context, employeeID int64, startISO, endISO string) ([]byte, string, error)
}

type scheduleExportService struct {
	resolver ScheduleResolverService
	repo     *repository.Repository
	loc      *time.Location
	logger   *zap.Logger
}

// NewScheduleExportService 创建 ScheduleExportService 实例
func NewScheduleExportService(cfg *config.ScheduleConfig, resolver ScheduleResolverService, repo *repository.Repository, logger *zap.Logger) ScheduleExportService {
	return &scheduleExportService{resolver: resolver, repo: repo, loc: cfg.Location(), logger: logger}
}

var weekdayNames = map[int]string{1: "周一", 2: "周二", 3: "周三", 4: "周四", 5: "周五", 6: "周六", 7: "周日"}

// ═══════════════════════════════════════════════════════════
// ExportWeekXLSX 导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头：日期 | 星期 | 上班 | 下班 | 休息(分钟) | 容忍(分钟) | 模板 | 站点

func (s *scheduleExportService) ExportWeekXLSX(ctx context.Context, employeeID int64, startISO, endISO string) (*bytes.Buffer, string, error) {
	entries, name, rng, err := s.resolve(ctx, employeeID, startISO, endISO)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "F", 10)
	f.SetColWidth(sheetName, "G", "H", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s  %s ~ %s", name, rng.Start, rng.End))
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "星期", "上班", "下班", "休息(分钟)", "容忍(分钟)", "模板", "站点"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "H2", headerStyle)

	// 数据行
	for i, e := range entries {
		row := 3 + i
		weekday := ""
		if d, err := civil.ParseDate(e.Date); err == nil {
			weekday = weekdayNames[isoWeekday(d)]
		}
		site := "-"
		if e.SiteName != nil {
			site = *e.SiteName
		}
		values := []any{e.Date, weekday, e.EntryTime, e.ExitTime, e.BreakMinutes, e.ToleranceMinutes, e.TemplateName, site}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排班_%s_%s_%s.xlsx", name, rng.Start, rng.End)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportWeekICS 导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *scheduleExportService) ExportWeekICS(ctx context.Context, employeeID int64, startISO, endISO string) ([]byte, string, error) {
	entries, name, rng, err := s.resolve(ctx, employeeID, startISO, endISO)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//marcacion//schedule//ES")
	cal.SetXWRCalName("排班 " + name)
	cal.SetXWRTimezone(s.loc.String())

	now := time.Now().UTC()
	for _, e := range entries {
		start, end, err := s.window(e)
		if err != nil {
			s.logger.Error("解析时间窗失败", zap.String("date", e.Date), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}

		ev := cal.AddEvent(fmt.Sprintf("%d-%s@marcacion", employeeID, e.Date))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.TemplateName)
		if e.SiteName != nil {
			ev.SetLocation(*e.SiteName)
		}
		ev.SetDescription(fmt.Sprintf("容忍 %d 分钟，休息 %d 分钟", e.ToleranceMinutes, e.BreakMinutes))
	}

	filename := fmt.Sprintf("schedule_%d_%s_%s.ics", employeeID, rng.Start, rng.End)
	return []byte(cal.Serialize()), filename, nil
}

// ── 内部辅助方法 ──

// resolve 解析排班并取员工姓名（员工不存在时返回 NotFoundError）。
// 返回的日期范围已规范为 YYYY-MM-DD，供标题与文件名使用
func (s *scheduleExportService) resolve(ctx context.Context, employeeID int64, startISO, endISO string) ([]dto.ScheduleDayEntry, string, DateRange, error) {
	entries, err := s.resolver.ResolveWeek(ctx, employeeID, startISO, endISO)
	if err != nil {
		return nil, "", DateRange{}, err
	}
	rng, err := ParseDateRange(startISO, endISO, 0)
	if err != nil {
		return nil, "", DateRange{}, err
	}
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", DateRange{}, apperrors.NotFound(ErrEmployeeNotFound)
		}
		s.logger.Error("查询员工失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, "", DateRange{}, err
	}
	return entries, emp.Name, rng, nil
}

// window 将日期与 HH:MM:SS 时刻组合为配置时区下的起止时间
func (s *scheduleExportService) window(e dto.ScheduleDayEntry) (time.Time, time.Time, error) {
	d, err := civil.ParseDate(e.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	entry, err := ParseClockTime(e.EntryTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	exit, err := ParseClockTime(e.ExitTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s.at(d, time.Duration(entry)), s.at(d, time.Duration(exit)), nil
}

func (s *scheduleExportService) at(d civil.Date, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)
	return time.Date(d.Year, d.Month, d.Day, h, m, sec, 0, s.loc)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
