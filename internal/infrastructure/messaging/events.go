// Package messaging 领域事件的发布与消费
//
// 开启MQ时事件经pkg/mq发布到library.events交换机，由NotificationHandler消费；
// 未开启时LocalPublisher在进程内异步调用同一个处理函数，行为保持一致。
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xiebiao/library/pkg/logger"
)

// 路由键
const (
	RoutingBookBorrowed         = "book.borrowed"
	RoutingBookReturned         = "book.returned"
	RoutingReservationCreated   = "reservation.created"
	RoutingReservationCancelled = "reservation.cancelled"
	RoutingReservationFulfilled = "reservation.fulfilled"
	RoutingReservationExpired   = "reservation.expired"
)

// NotificationBindings 通知队列绑定的路由键
var NotificationBindings = []string{"book.*", "reservation.*"}

// BorrowEvent 借阅/归还事件
type BorrowEvent struct {
	BorrowID   string `json:"borrow_id"`
	BookID     string `json:"book_id"`
	UserID     string `json:"user_id"`
	DueDate    int64  `json:"due_date"`
	Early      bool   `json:"early,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// ReservationEvent 预约事件
// 携带发送确认邮件所需的全部字段，消费者不用回查数据库
type ReservationEvent struct {
	ReservationID      string `json:"reservation_id"`
	BookID             string `json:"book_id"`
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	BookTitle          string `json:"book_title"`
	BookAuthor         string `json:"book_author"`
	ReserveDate        string `json:"reserve_date"`
	TimeSlot           string `json:"time_slot"`
	Days               int    `json:"days"`
	ExpectedReturnDate string `json:"expected_return_date"`
	OccurredAt         int64  `json:"occurred_at"`
}

// Publisher 事件发布者
// *mq.Publisher直接满足该接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// Handler 事件处理函数
type Handler func(ctx context.Context, routingKey string, body []byte) error

// LocalPublisher 进程内发布者
// 事件序列化后在新goroutine里交给handler，和请求的ctx脱钩；handler的错误只记日志
type LocalPublisher struct {
	handler Handler
	timeout time.Duration
}

// NewLocalPublisher 创建进程内发布者，handler为nil时事件被丢弃
func NewLocalPublisher(handler Handler) *LocalPublisher {
	return &LocalPublisher{handler: handler, timeout: 30 * time.Second}
}

// Publish 异步投递
func (p *LocalPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	if p.handler == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		if err := p.handler(ctx, routingKey, body); err != nil {
			logger.L().WithField("routing_key", routingKey).WithError(err).Error("事件处理失败")
		}
	}()
	return nil
}

// PublishBestEffort 发布失败只记日志，不影响主流程
func PublishBestEffort(ctx context.Context, p Publisher, routingKey string, event interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, event); err != nil {
		logPublishFailure(routingKey, err)
	}
}
