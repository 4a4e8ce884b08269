package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleMember,
	domain.RoleOrgAdmin,
	domain.RoleSystemAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomOrganization() *domain.Organization {
	return &domain.Organization{
		Name:        "组织" + GenerateRandomID(3, 3),
		Description: "组织描述" + GenerateRandomID(20, 10),
	}
}

var eventTitles = []string{
	"例会", "值班", "培训", "讲座", "团建", "志愿服务", "技术分享",
}

// 随机生成一个活动，日期落在今天前后 daySpread 天内。
// 为了覆盖引擎处理的各种日期形态，随机在纪元毫秒、纪元秒和 ISO 文本三种表示中选一种。
func GenerateRandomEvent(organizationID int64, daySpread int) *domain.ScheduledEvent {
	offset := rand.Intn(2*daySpread+1) - daySpread
	day := time.Now().AddDate(0, 0, offset)

	var date domain.FlexDate
	switch rand.Intn(3) {
	case 0:
		date = domain.NewEpochDate(day.UnixMilli())
	case 1:
		date = domain.NewEpochDate(day.Unix())
	default:
		date = domain.NewTextDate(day.Format("2006-01-02"))
	}

	return &domain.ScheduledEvent{
		OrganizationID: organizationID,
		Title:          eventTitles[rand.Intn(len(eventTitles))],
		Date:           date,
	}
}

var checkInStatuses = []domain.AttendanceStatus{
	domain.AttendanceOnTime,
	domain.AttendanceOnTime,
	domain.AttendanceLate,
}

func GenerateRandomCheckIn(user *domain.User, event *domain.ScheduledEvent) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		UserID:         user.ID,
		OrganizationID: event.OrganizationID,
		EventID:        &event.ID,
		OccurredOn:     event.Date,
		IsAdHoc:        false,
		Status:         checkInStatuses[rand.Intn(len(checkInStatuses))],
	}
}

func GenerateRandomAdHocCheckIn(user *domain.User, organizationID int64, daySpread int) *domain.AttendanceRecord {
	offset := rand.Intn(daySpread + 1)
	day := time.Now().AddDate(0, 0, -offset)

	return &domain.AttendanceRecord{
		UserID:         user.ID,
		OrganizationID: organizationID,
		OccurredOn:     domain.NewEpochDate(day.UnixMilli()),
		IsAdHoc:        true,
		Status:         domain.AttendanceOnTime,
	}
}

var excuseReasons = []string{
	"身体不适", "家中有事", "课程冲突", "参加比赛", "实习面试",
}

var excuseStatuses = []domain.ExcuseStatus{
	domain.ExcusePending,
	domain.ExcuseApproved,
	domain.ExcuseDenied,
}

func GenerateRandomExcuse(user *domain.User, event *domain.ScheduledEvent) *domain.ExcuseRequest {
	return &domain.ExcuseRequest{
		UserID:         user.ID,
		OrganizationID: event.OrganizationID,
		EventID:        event.ID,
		OccurredOn:     event.Date,
		Reason:         excuseReasons[rand.Intn(len(excuseReasons))],
		Status:         excuseStatuses[rand.Intn(len(excuseStatuses))],
	}
}
