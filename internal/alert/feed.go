package alert

import (
	"context"
	"sync"

	"go.uber.org/zap"

	redispkg "unilink/backend/pkg/redis"
)

// ── 事件主题 ──

const (
	TopicMeetingAdded      = "unilink:meetings:added"
	TopicNotificationAdded = "unilink:notifications:added"
)

// MeetingAdded 新会面申请事件载荷
type MeetingAdded struct {
	MeetingID    string `json:"meeting_id"`
	FromUserID   string `json:"from_user_id"`
	FromUserName string `json:"from_user_name"`
	ToUserID     string `json:"to_user_id"`
	Status       string `json:"status"`
}

// NotificationAdded 新通知事件载荷
type NotificationAdded struct {
	NotificationID string `json:"notification_id"`
	Type           string `json:"type"`
	ToUserID       string `json:"to_user_id"`
	Message        string `json:"message"`
	Read           bool   `json:"read"`
}

// Feed 数据变更事件总线
//
// 仅广播"新增"事件；修改与删除不产生告警。
// 多实例部署时经 Redis Pub/Sub 跨实例分发，
// Redis 不可用时退化为进程内总线（单实例可用）。
type Feed interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(topic string) *Subscription
	Close() error
}

// Subscription 可取消的订阅句柄；Close 后 C 会被关闭
type Subscription struct {
	C <-chan []byte

	closeFn func()
	once    sync.Once
}

// Close 取消订阅并释放底层连接资源，可重复调用
func (s *Subscription) Close() {
	s.once.Do(s.closeFn)
}

// ── Redis 实现 ──

type redisFeed struct {
	rdb    *redispkg.Client
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	subs   map[*Subscription]func()
}

// NewRedisFeed 创建基于 Redis Pub/Sub 的事件总线
func NewRedisFeed(rdb *redispkg.Client, logger *zap.Logger) Feed {
	return &redisFeed{
		rdb:    rdb,
		logger: logger,
		subs:   make(map[*Subscription]func()),
	}
}

func (f *redisFeed) Publish(ctx context.Context, topic string, payload []byte) error {
	return f.rdb.Publish(ctx, topic, payload)
}

func (f *redisFeed) Subscribe(topic string) *Subscription {
	pubsub := f.rdb.Subscribe(context.Background(), topic)
	ch := make(chan []byte, 16)

	sub := &Subscription{C: ch}
	sub.closeFn = func() {
		_ = pubsub.Close()
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	}

	f.mu.Lock()
	f.subs[sub] = sub.closeFn
	f.mu.Unlock()

	go func() {
		defer close(ch)
		// pubsub.Close 后 Channel 关闭，循环随之退出
		for msg := range pubsub.Channel() {
			select {
			case ch <- []byte(msg.Payload):
			default:
				f.logger.Warn("事件订阅缓冲已满，丢弃消息", zap.String("topic", topic))
			}
		}
	}()

	return sub
}

func (f *redisFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	fns := make([]func(), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// ── 进程内实现 ──

type memoryFeed struct {
	mu     sync.Mutex
	closed bool
	nextID int
	subs   map[string]map[int]chan []byte // topic → id → channel
}

// NewMemoryFeed 创建进程内事件总线（测试与 Redis 降级模式使用）
func NewMemoryFeed() Feed {
	return &memoryFeed{subs: make(map[string]map[int]chan []byte)}
}

func (f *memoryFeed) Publish(_ context.Context, topic string, payload []byte) error {
	f.mu.Lock()
	targets := make([]chan []byte, 0, len(f.subs[topic]))
	for _, ch := range f.subs[topic] {
		targets = append(targets, ch)
	}
	f.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- payload:
		default:
			// 订阅方消费过慢时丢弃，与 Redis 路径行为一致
		}
	}
	return nil
}

func (f *memoryFeed) Subscribe(topic string) *Subscription {
	ch := make(chan []byte, 16)

	f.mu.Lock()
	if f.subs[topic] == nil {
		f.subs[topic] = make(map[int]chan []byte)
	}
	id := f.nextID
	f.nextID++
	f.subs[topic][id] = ch
	f.mu.Unlock()

	sub := &Subscription{C: ch}
	sub.closeFn = func() {
		f.mu.Lock()
		if chans, ok := f.subs[topic]; ok {
			if _, ok := chans[id]; ok {
				delete(chans, id)
				close(ch)
			}
		}
		f.mu.Unlock()
	}
	return sub
}

func (f *memoryFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	for _, chans := range f.subs {
		for id, ch := range chans {
			delete(chans, id)
			close(ch)
		}
	}
	f.mu.Unlock()
	return nil
}
