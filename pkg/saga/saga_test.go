package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, name string) func(context.Context) error {
	return func(context.Context) error {
		*log = append(*log, name)
		return nil
	}
}

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	var executed []string

	s := New("borrow", 5*time.Second)
	s.AddStep("创建借阅记录", record(&executed, "创建借阅记录"), record(&executed, "删除借阅记录"))
	s.AddStep("扣减库存", record(&executed, "扣减库存"), record(&executed, "恢复库存"))

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"创建借阅记录", "扣减库存"}, executed)
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	var executed []string
	errStock := errors.New("库存不足")

	s := New("borrow", 5*time.Second).WithField("book_id", "b1")
	s.AddStep("创建借阅记录", record(&executed, "创建借阅记录"), record(&executed, "删除借阅记录"))
	s.AddStep("写入日志", record(&executed, "写入日志"), nil)
	s.AddStep("扣减库存", func(context.Context) error { return errStock }, record(&executed, "恢复库存"))

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStock, "原始错误必须可识别")
	// 失败步骤本身不补偿，nil补偿被跳过
	assert.Equal(t, []string{"创建借阅记录", "写入日志", "删除借阅记录"}, executed)
}

// TestSaga_CompensateFailure 测试补偿失败时仍返回原始错误
func TestSaga_CompensateFailure(t *testing.T) {
	errAction := errors.New("写入失败")
	compensated := false

	s := New("like", 0)
	s.AddStep("删除点赞行",
		func(context.Context) error { return nil },
		func(context.Context) error { return errors.New("回滚失败") },
	)
	s.AddStep("更新计数", func(context.Context) error { return errAction }, nil)
	s.AddStep("不会执行", func(context.Context) error { compensated = true; return nil }, nil)

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, errAction)
	assert.False(t, compensated)
}

// TestSaga_Execute_Cancelled 测试Context已取消时不执行后续步骤并补偿
func TestSaga_Execute_Cancelled(t *testing.T) {
	var executed []string
	ctx, cancel := context.WithCancel(context.Background())

	s := New("return", time.Second)
	s.AddStep("标记归还",
		func(context.Context) error {
			executed = append(executed, "标记归还")
			cancel()
			return nil
		},
		func(ctx context.Context) error {
			// 补偿使用的Context不受请求取消影响
			assert.NoError(t, ctx.Err())
			executed = append(executed, "恢复借阅状态")
			return nil
		},
	)
	s.AddStep("增加库存", record(&executed, "增加库存"), nil)

	err := s.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"标记归还", "恢复借阅状态"}, executed)
}
