package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/repository"
)

var requiredHeaders = []string{"NetID", "姓名", "邮箱", "角色", "组织"}

// SeedRealData 从花名册 CSV 导入成员和组织
// 组织列中的多个组织用顿号分隔
func SeedRealData(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/roster.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	for _, required := range requiredHeaders {
		if !slices.Contains(headers, required) {
			slog.Error("没有找到必需的列", "header", required)
			return
		}
	}

	// 读取数据
	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}
		records = append(records, record)
	}

	// 先把花名册里出现过的组织都建好
	organizationIDs := make(map[string]int64)
	for _, record := range records {
		for _, name := range strings.Split(record["组织"], "、") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := organizationIDs[name]; ok {
				continue
			}

			organization := &domain.Organization{
				Name:        name,
				Description: name + "（花名册导入）",
			}
			if err := r.CreateOrganization(organization); err != nil {
				slog.Error("插入组织失败", "name", name, "error", err)
				continue
			}
			organizationIDs[name] = organization.ID
		}
	}

	// 插入成员及其组织归属
	for _, record := range records {
		netID := record["NetID"]
		if netID == "" {
			slog.Error("没有找到NetID", "record", record)
			continue
		}

		user, err := r.GetUserByUsername(netID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// 表示该成员不在数据库中，需要新建并插入
				user = &domain.User{
					Username:     netID,
					PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // ecnc@test8403
					FullName:     record["姓名"],
					Email:        record["邮箱"],
					Role:         domain.Role(record["角色"]),
				}

				if err := r.CreateUser(user); err != nil {
					slog.Error("插入成员失败", "error", err)
					continue
				}
			default:
				slog.Error("获取成员失败", "error", err)
				continue
			}
		}

		for _, name := range strings.Split(record["组织"], "、") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			organizationID, ok := organizationIDs[name]
			if !ok {
				slog.Error("没有找到组织", "name", name)
				continue
			}

			if err := r.AddOrganizationMember(organizationID, user.ID); err != nil {
				slog.Error("插入组织成员失败", "error", err)
				continue
			}
		}
	}

	slog.Info("插入数据完成")
}
