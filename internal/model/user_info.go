// Package model 定义数据库实体模型
// 本文件定义用户资料模型，包含用户基本资料和认证信息
package model

import (
	"strings"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// UserInfo 用户资料模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识
	// 格式：U + 6位日期 + 13位随机字符，如 "U240104aB3dE5fG7hJ9k"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	Username  string `gorm:"column:username;uniqueIndex;type:varchar(30);not null;comment:用户名"`
	Email     string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`
	FirstName string `gorm:"column:first_name;type:varchar(30);not null;comment:名"`
	LastName  string `gorm:"column:last_name;type:varchar(30);not null;comment:姓"`
	AvatarUrl string `gorm:"column:avatar_url;type:varchar(255);comment:头像"`
	Bio       string `gorm:"column:bio;type:varchar(500);comment:个人简介"`
	Location  string `gorm:"column:location;type:varchar(100);comment:所在城市"`

	// Skills / Positions 逗号分隔存储，读取时用 SkillList / PositionList
	Skills    string `gorm:"column:skills;type:varchar(255);comment:擅长技能，逗号分隔"`
	Positions string `gorm:"column:positions;type:varchar(255);comment:场上位置，逗号分隔"`

	// Password 密码（bcrypt 哈希）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// RawPassword 明文密码（不存入数据库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：将 RawPassword 加密后写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// SkillList 技能列表
func (u *UserInfo) SkillList() []string {
	return splitList(u.Skills)
}

// PositionList 位置列表
func (u *UserInfo) PositionList() []string {
	return splitList(u.Positions)
}

// JoinList 将列表规范化后拼成逗号分隔字符串（去空白、去空项、去重）
func JoinList(items []string) string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return strings.Join(out, ",")
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
