package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/seed"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var organizationID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机组织, 3: 插入随机活动, 4: 插入签到和请假记录, 5: 插入真实数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&organizationID, "organization-id", 0, "随机插入活动或签到记录的组织 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的组织数量")
			return
		}

		// 把现有的用户都加入到新建的组织中，方便测试
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取所有用户", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			organization := utils.GenerateRandomOrganization()
			if err := repo.CreateOrganization(organization); err != nil {
				slog.Error("无法插入组织", slog.String("error", err.Error()))
				continue
			}

			for _, user := range users {
				if err := repo.AddOrganizationMember(organization.ID, user.ID); err != nil {
					slog.Error("无法插入组织成员", slog.String("error", err.Error()))
				}
			}

			cnt--
		}

		slog.Info("插入组织成功", slog.Int("count", n-cnt))
	case 3:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的活动数量")
			return
		}

		if _, err := repo.GetOrganizationByID(organizationID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的组织不存在", slog.Int64("organization_id", organizationID))
			default:
				slog.Error("无法获取组织", slog.String("error", err.Error()))
			}
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			// 活动日期落在今天前后三周内，既有历史活动也有未来活动
			event := utils.GenerateRandomEvent(organizationID, 21)
			if err := repo.CreateEvent(event); err != nil {
				slog.Error("无法插入活动", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入活动成功", slog.Int("count", n-cnt))
	case 4:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		// 获取该组织最近的活动
		now := time.Now()
		events, err := repo.GetEventsByOrganizationAndRange(organizationID, now.AddDate(0, 0, -21), now)
		if err != nil {
			slog.Error("无法获取活动列表", slog.String("error", err.Error()))
			return
		}
		if len(events) == 0 {
			slog.Error("该组织没有历史活动，请先插入活动")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取所有用户", slog.String("error", err.Error()))
			return
		}

		checkInCnt := 0
		excuseCnt := 0
		for _, user := range users {
			for _, event := range events {
				// 大部分活动正常签到，少部分请假，偶尔缺勤（不生成任何记录）
				switch rand.Intn(10) {
				case 0:
					excuse := utils.GenerateRandomExcuse(user, event)
					if err := repo.CreateExcuseRequest(excuse); err != nil {
						slog.Error("无法插入请假申请", slog.String("error", err.Error()))
						continue
					}
					excuseCnt++
				case 1:
					// 缺勤
				default:
					record := utils.GenerateRandomCheckIn(user, event)
					if err := repo.CreateAttendanceRecord(record); err != nil {
						slog.Error("无法插入签到记录", slog.String("error", err.Error()))
						continue
					}
					checkInCnt++
				}
			}

			// 顺手插入一条临时签到，覆盖不关联活动的场景
			adHoc := utils.GenerateRandomAdHocCheckIn(user, organizationID, 21)
			if err := repo.CreateAttendanceRecord(adHoc); err != nil {
				slog.Error("无法插入临时签到记录", slog.String("error", err.Error()))
			}
		}

		slog.Info("插入签到和请假记录成功", slog.Int("check_ins", checkInCnt), slog.Int("excuses", excuseCnt))
	case 5:
		seed.SeedRealData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
