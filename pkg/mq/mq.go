// Package mq 提供基于RabbitMQ的事件发布/订阅
//
// 借还、预约等领域事件发布到topic类型的交换机（默认library.events），
// 路由键形如book.borrowed、book.returned、reservation.created。
// 消费者按路由键模式绑定队列，手动确认；处理失败的消息重新入队。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// Publisher 消息发布者
// amqp.Channel不是并发安全的，发布时加锁
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明交换机
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, channel, err := open(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{"exchange": exchange, "type": exchangeType}).Info("消息发布者已创建")
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func open(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// durable=true, autoDelete=false, internal=false, noWait=false
	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, channel, nil
}

// Publish 以JSON发布消息（持久化投递）
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.MessagesPublishedTotal.WithLabelValues(p.exchange, routingKey).Inc()
	logger.L().WithField("routing_key", routingKey).Debug("消息已发布")
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Delivery 交给处理函数的消息
type Delivery struct {
	RoutingKey string
	Body       []byte
}

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer 声明队列并按routingKeys绑定到交换机
// routingKeys支持通配符：*匹配一个单词，#匹配零个或多个单词
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, channel, err := open(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	logger.L().WithFields(logrus.Fields{"queue": q.Name, "routing_keys": routingKeys}).Info("消息消费者已创建")
	return &Consumer{conn: conn, channel: channel, queue: q.Name}, nil
}

// Consume 阻塞消费，直到ctx取消或Channel关闭
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, Delivery) error) error {
	// 每次只取1条，处理完再取下一条
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	log := logger.L().WithField("queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			log.Info("消费者退出")
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}

			if err := handler(ctx, Delivery{RoutingKey: msg.RoutingKey, Body: msg.Body}); err != nil {
				log.WithError(err).WithField("routing_key", msg.RoutingKey).Warn("消息处理失败，重新入队")
				metrics.MessagesConsumedTotal.WithLabelValues(c.queue, "failure").Inc()
				msg.Nack(false, true)
				continue
			}
			metrics.MessagesConsumedTotal.WithLabelValues(c.queue, "success").Inc()
			msg.Ack(false)
		}
	}
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
