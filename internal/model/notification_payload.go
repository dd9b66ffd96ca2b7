package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotificationType 通知类型，同时是 NotificationPayload 的标签
type NotificationType string

const (
	NotificationFriendRequest  NotificationType = "friend_request"
	NotificationFriendAccepted NotificationType = "friend_accepted"
	NotificationMessage        NotificationType = "message"
	NotificationNewUserMatch   NotificationType = "new_user_match"
	NotificationGameUpdate     NotificationType = "game_update"
)

// NotificationPayload 通知附加数据，每种类型一个具体结构
type NotificationPayload interface {
	NotificationType() NotificationType
	validate() error
}

// FriendRequestPayload 收到好友申请
type FriendRequestPayload struct {
	FriendshipID string `json:"friendship_id"`
	RequesterID  string `json:"requester_id"`
}

// FriendAcceptedPayload 好友申请被通过
type FriendAcceptedPayload struct {
	FriendshipID string `json:"friendship_id"`
	AddresseeID  string `json:"addressee_id"`
}

// MessagePayload 收到新私信
type MessagePayload struct {
	SenderID  string `json:"sender_id"`
	MessageID int64  `json:"message_id,string"`
}

// NewUserMatchPayload 匹配到新球友
type NewUserMatchPayload struct {
	UserID string `json:"user_id"`
	Sport  Sport  `json:"sport"`
}

// GameUpdatePayload 比赛信息变更
type GameUpdatePayload struct {
	GameID string `json:"game_id"`
	Sport  Sport  `json:"sport,omitempty"`
}

func (FriendRequestPayload) NotificationType() NotificationType  { return NotificationFriendRequest }
func (FriendAcceptedPayload) NotificationType() NotificationType { return NotificationFriendAccepted }
func (MessagePayload) NotificationType() NotificationType        { return NotificationMessage }
func (NewUserMatchPayload) NotificationType() NotificationType   { return NotificationNewUserMatch }
func (GameUpdatePayload) NotificationType() NotificationType     { return NotificationGameUpdate }

func (p FriendRequestPayload) validate() error {
	if p.FriendshipID == "" || p.RequesterID == "" {
		return fmt.Errorf("friend_request payload requires friendship_id and requester_id")
	}
	return nil
}

func (p FriendAcceptedPayload) validate() error {
	if p.FriendshipID == "" || p.AddresseeID == "" {
		return fmt.Errorf("friend_accepted payload requires friendship_id and addressee_id")
	}
	return nil
}

func (p MessagePayload) validate() error {
	if p.SenderID == "" {
		return fmt.Errorf("message payload requires sender_id")
	}
	return nil
}

func (p NewUserMatchPayload) validate() error {
	if p.UserID == "" {
		return fmt.Errorf("new_user_match payload requires user_id")
	}
	return nil
}

func (p GameUpdatePayload) validate() error {
	if p.GameID == "" {
		return fmt.Errorf("game_update payload requires game_id")
	}
	return nil
}

// EncodePayload 校验并序列化附加数据，返回其类型标签
func EncodePayload(p NotificationPayload) (NotificationType, []byte, error) {
	if p == nil {
		return "", nil, fmt.Errorf("nil notification payload")
	}
	if err := p.validate(); err != nil {
		return "", nil, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	return p.NotificationType(), raw, nil
}

// DecodePayload 按类型标签解析附加数据
// 未知类型、字段不匹配或缺少必填字段都会返回错误
func DecodePayload(t NotificationType, raw []byte) (NotificationPayload, error) {
	var p NotificationPayload
	switch t {
	case NotificationFriendRequest:
		p = &FriendRequestPayload{}
	case NotificationFriendAccepted:
		p = &FriendAcceptedPayload{}
	case NotificationMessage:
		p = &MessagePayload{}
	case NotificationNewUserMatch:
		p = &NewUserMatchPayload{}
	case NotificationGameUpdate:
		p = &GameUpdatePayload{}
	default:
		return nil, fmt.Errorf("unknown notification type %q", t)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}
