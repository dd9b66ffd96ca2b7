package model

import "time"

// FriendshipStatus 好友关系状态
// 不存在记录即为 none，none 不落库
type FriendshipStatus string

const (
	FriendshipNone     FriendshipStatus = "none"
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship 好友关系
// 对应数据库 friendship 表
// 同一对用户（无序）最多一条记录，由 pair_key 唯一索引保证
type Friendship struct {
	ID          string           `gorm:"column:id;primaryKey;type:char(20);comment:好友关系id"`
	RequesterId string           `gorm:"column:requester_id;index;type:char(20);not null;comment:发起人"`
	AddresseeId string           `gorm:"column:addressee_id;index;type:char(20);not null;comment:接收人"`
	PairKey     string           `gorm:"column:pair_key;uniqueIndex;type:varchar(41);not null;comment:无序用户对，小id:大id"`
	Status      FriendshipStatus `gorm:"column:status;index;type:varchar(16);not null;comment:状态 pending/accepted/declined/blocked"`
	CreatedAt   time.Time        `gorm:"column:created_at;comment:创建时间"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;comment:更新时间"`
}

// TableName 指定表名
func (Friendship) TableName() string {
	return "friendship"
}

// PairKey 生成无序用户对的规范 key，PairKey(a,b) == PairKey(b,a)
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Counterpart 返回关系中 userId 的另一方
func (f *Friendship) Counterpart(userId string) string {
	if f.RequesterId == userId {
		return f.AddresseeId
	}
	return f.RequesterId
}

// Involves 判断 userId 是否为关系的一方
func (f *Friendship) Involves(userId string) bool {
	return f.RequesterId == userId || f.AddresseeId == userId
}
