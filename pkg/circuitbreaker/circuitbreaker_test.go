package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("deepseek 502")

func fail(context.Context) error    { return errRemote }
func succeed(context.Context) error { return nil }

func tripAfter(n uint32, timeout time.Duration) Config {
	return Config{
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= n },
	}
}

// TestCircuitBreaker_ClosedState 测试关闭状态正常放行
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := New("test-closed", tripAfter(3, time.Second))

	for i := 0; i < 5; i++ {
		require.NoError(t, cb.Do(context.Background(), succeed))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.EqualValues(t, 5, cb.Counts().TotalSuccesses)
}

// TestCircuitBreaker_OpenState 测试连续失败后打开并快速失败
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := New("test-open", tripAfter(3, time.Minute))

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Do(context.Background(), fail), errRemote)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Do(context.Background(), func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "打开状态不能调用下游")
}

// TestCircuitBreaker_HalfOpenRecovery 测试半开状态探测成功后关闭
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := New("test-half-open", tripAfter(1, 20*time.Millisecond))

	_ = cb.Do(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Do(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

// TestCircuitBreaker_HalfOpenToOpen 测试半开状态探测失败后重新打开
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb := New("test-reopen", tripAfter(1, 20*time.Millisecond))

	_ = cb.Do(context.Background(), fail)
	time.Sleep(30 * time.Millisecond)

	_ = cb.Do(context.Background(), fail)
	assert.Equal(t, StateOpen, cb.State())
}

// TestCircuitBreaker_CanceledNotCounted 测试调用方取消不计为失败
func TestCircuitBreaker_CanceledNotCounted(t *testing.T) {
	cb := New("test-cancel", tripAfter(1, time.Minute))

	err := cb.Do(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

// TestCounts_FailureRate 测试失败率计算
func TestCounts_FailureRate(t *testing.T) {
	assert.Equal(t, 0.0, Counts{}.FailureRate())
	assert.Equal(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate())
}
