package alert

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"unilink/backend/internal/model"
)

// Alert 一次性告警载荷
type Alert struct {
	Kind    string `json:"kind"` // meeting | notification
	Message string `json:"message"`
}

const (
	KindMeeting      = "meeting"
	KindNotification = "notification"
)

// Bridge 将"出现匹配过滤条件的新文档"事件转换为一次性告警。
//
// 每个已认证会话持有一个 Bridge。两路订阅相互独立：
//   - 非学生角色：接收方为当前用户且状态 pending 的新会面申请
//   - 全部角色：接收方为当前用户且未读的新通知
//
// 两路告警按到达顺序交错投递，不保证跨流按创建时间有序。
// 会话结束时必须调用 Close 释放订阅资源。
type Bridge struct {
	alerts chan Alert
	subs   []*Subscription
	wg     sync.WaitGroup
	once   sync.Once
	logger *zap.Logger
}

// NewBridge 为指定用户建立告警订阅
func NewBridge(feed Feed, userID, role string, logger *zap.Logger) *Bridge {
	b := &Bridge{
		alerts: make(chan Alert, 16),
		logger: logger,
	}

	if role != model.RoleStudent {
		sub := feed.Subscribe(TopicMeetingAdded)
		b.subs = append(b.subs, sub)
		b.wg.Add(1)
		go b.pumpMeetings(sub, userID)
	}

	sub := feed.Subscribe(TopicNotificationAdded)
	b.subs = append(b.subs, sub)
	b.wg.Add(1)
	go b.pumpNotifications(sub, userID)

	return b
}

// Alerts 告警输出通道；Close 后关闭
func (b *Bridge) Alerts() <-chan Alert {
	return b.alerts
}

// Close 取消全部订阅并关闭告警通道，可重复调用
func (b *Bridge) Close() {
	b.once.Do(func() {
		for _, sub := range b.subs {
			sub.Close()
		}
		b.wg.Wait()
		close(b.alerts)
	})
}

func (b *Bridge) pumpMeetings(sub *Subscription, userID string) {
	defer b.wg.Done()
	for payload := range sub.C {
		var ev MeetingAdded
		if err := json.Unmarshal(payload, &ev); err != nil {
			b.logger.Warn("会面事件解析失败", zap.Error(err))
			continue
		}
		if ev.ToUserID != userID || ev.Status != model.MeetingPending {
			continue
		}
		b.emit(Alert{
			Kind:    KindMeeting,
			Message: fmt.Sprintf("New meeting request from %s", ev.FromUserName),
		})
	}
}

func (b *Bridge) pumpNotifications(sub *Subscription, userID string) {
	defer b.wg.Done()
	for payload := range sub.C {
		var ev NotificationAdded
		if err := json.Unmarshal(payload, &ev); err != nil {
			b.logger.Warn("通知事件解析失败", zap.Error(err))
			continue
		}
		if ev.ToUserID != userID || ev.Read {
			continue
		}
		msg := ev.Message
		if msg == "" {
			msg = fmt.Sprintf("New %s alert", ev.Type)
		}
		b.emit(Alert{Kind: KindNotification, Message: msg})
	}
}

func (b *Bridge) emit(a Alert) {
	select {
	case b.alerts <- a:
	default:
		b.logger.Warn("告警队列已满，丢弃告警", zap.String("kind", a.Kind))
	}
}
