package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/internal/infrastructure/mail"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// NotificationHandler 把事件转成用户通知（目前只有预约确认邮件）
type NotificationHandler struct {
	sender   mail.Sender
	siteName string
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(sender mail.Sender, siteName string) *NotificationHandler {
	return &NotificationHandler{sender: sender, siteName: siteName}
}

// Handle 处理一条事件
// 返回error时MQ消费者会让消息重新入队，所以无法解析的消息只记日志不返回错误
func (h *NotificationHandler) Handle(ctx context.Context, routingKey string, body []byte) error {
	log := logger.L().WithField("routing_key", routingKey)

	switch routingKey {
	case RoutingReservationCreated:
		var evt ReservationEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			log.WithError(err).Warn("预约事件格式错误，已丢弃")
			return nil
		}
		return h.sendReservationMail(ctx, evt)
	default:
		log.Debug("事件无需通知")
		return nil
	}
}

func (h *NotificationHandler) sendReservationMail(ctx context.Context, evt ReservationEvent) error {
	if evt.Email == "" {
		return nil
	}
	msg, err := mail.ReservationMessage(h.siteName, evt.Email, mail.ReservationInfo{
		Title:              evt.BookTitle,
		Author:             evt.BookAuthor,
		ReserveDate:        evt.ReserveDate,
		TimeSlot:           evt.TimeSlot,
		Days:               evt.Days,
		ExpectedReturnDate: evt.ExpectedReturnDate,
	})
	if err != nil {
		return fmt.Errorf("渲染预约邮件失败: %w", err)
	}

	log := logger.L().WithFields(logrus.Fields{
		"reservation_id": evt.ReservationID,
		"email":          evt.Email,
	})
	if err := h.sender.Send(ctx, msg); err != nil {
		log.WithError(err).Warn("预约确认邮件发送失败")
		return err
	}
	log.Info("预约确认邮件已发送")
	return nil
}

// Consume 用MQ消费者驱动处理器，阻塞到ctx取消
func Consume(ctx context.Context, consumer *mq.Consumer, handler Handler) error {
	return consumer.Consume(ctx, func(ctx context.Context, d mq.Delivery) error {
		return handler(ctx, d.RoutingKey, d.Body)
	})
}

func logPublishFailure(routingKey string, err error) {
	logger.L().WithField("routing_key", routingKey).WithError(err).Warn("事件发布失败")
}
