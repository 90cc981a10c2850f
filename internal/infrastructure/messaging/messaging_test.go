package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xiebiao/library/internal/infrastructure/mail"
	"github.com/xiebiao/library/internal/mocks"
	"github.com/xiebiao/library/pkg/logger"
)

func reservationBody(t *testing.T, email string) []byte {
	t.Helper()
	body, err := json.Marshal(ReservationEvent{
		ReservationID:      "r-1",
		BookID:             "b-1",
		Email:              email,
		BookTitle:          "三体",
		BookAuthor:         "刘慈欣",
		ReserveDate:        "2026-10-20",
		TimeSlot:           "上午",
		Days:               14,
		ExpectedReturnDate: "2026-11-03",
	})
	require.NoError(t, err)
	return body
}

// TestHandleReservationCreated 预约事件渲染成确认邮件
func TestHandleReservationCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
		assert.Equal(t, "a@x.com", msg.To)
		assert.Equal(t, "FluxLib泛集库图书预约确认", msg.Subject)
		assert.Contains(t, msg.TextBody, "书名: 三体")
		assert.Contains(t, msg.TextBody, "预计归还日期: 2026-11-03")
		return nil
	})

	h := NewNotificationHandler(sender, "FluxLib泛集库")
	require.NoError(t, h.Handle(context.Background(), RoutingReservationCreated, reservationBody(t, "a@x.com")))
}

// TestHandleSendFailure 发送失败返回错误，让MQ重新投递
func TestHandleSendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	h := NewNotificationHandler(sender, "site")
	assert.Error(t, h.Handle(context.Background(), RoutingReservationCreated, reservationBody(t, "a@x.com")))
}

// TestHandleIgnored 其他事件、坏消息、无邮箱都不发信
func TestHandleIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	h := NewNotificationHandler(sender, "site")
	ctx := context.Background()
	assert.NoError(t, h.Handle(ctx, RoutingBookBorrowed, []byte(`{"borrow_id":"x"}`)))
	assert.NoError(t, h.Handle(ctx, RoutingReservationCreated, []byte("not json")))
	assert.NoError(t, h.Handle(ctx, RoutingReservationCreated, reservationBody(t, "")))
}

// TestLocalPublisher 进程内发布异步调用处理函数，请求ctx取消不影响处理
func TestLocalPublisher(t *testing.T) {
	got := make(chan string, 1)
	p := NewLocalPublisher(func(ctx context.Context, key string, body []byte) error {
		require.NoError(t, ctx.Err())
		var evt BorrowEvent
		require.NoError(t, json.Unmarshal(body, &evt))
		got <- key + ":" + evt.BorrowID
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Publish(ctx, RoutingBookBorrowed, BorrowEvent{BorrowID: "br-1"}))
	cancel()

	select {
	case v := <-got:
		assert.Equal(t, "book.borrowed:br-1", v)
	case <-time.After(2 * time.Second):
		t.Fatal("处理函数未被调用")
	}
}

// lockedBuffer 日志在发布goroutine里写，测试goroutine里读
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestLocalPublisherLogsHandlerError 处理函数返回的错误写入日志
func TestLocalPublisherLogsHandlerError(t *testing.T) {
	out := &lockedBuffer{}
	logger.SetOutput(out)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	p := NewLocalPublisher(func(context.Context, string, []byte) error {
		return errors.New("渲染邮件模板失败")
	})
	require.NoError(t, p.Publish(context.Background(), RoutingReservationCreated, ReservationEvent{ReservationID: "r-1"}))

	assert.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "事件处理失败") &&
			strings.Contains(s, "渲染邮件模板失败") &&
			strings.Contains(s, RoutingReservationCreated)
	}, 2*time.Second, 10*time.Millisecond)
}

// TestPublishBestEffort 发布失败不向上返回
func TestPublishBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), RoutingBookReturned, gomock.Any()).Return(errors.New("closed"))

	PublishBestEffort(context.Background(), pub, RoutingBookReturned, BorrowEvent{BorrowID: "br-1"})
	PublishBestEffort(context.Background(), nil, RoutingBookReturned, BorrowEvent{})
}
