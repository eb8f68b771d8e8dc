package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/internal/config"
	"github.com/GaYoung-La/naver-shopping-trend/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDiscoveryRunner struct {
	mu   sync.Mutex
	runs int
}

func (f *fakeDiscoveryRunner) RunDiscovery(_ context.Context) (*contract.DiscoveryReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return &contract.DiscoveryReport{StartedAt: time.Now()}, nil
}

func (f *fakeDiscoveryRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

type fakeNotificationSender struct {
	mu            sync.Mutex
	notifications []contract.Notification
}

func (f *fakeNotificationSender) Notify(_ context.Context, n contract.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func TestNewService(t *testing.T) {
	t.Run("실패: DiscoveryRunner 누락 시 패닉", func(t *testing.T) {
		assert.Panics(t, func() {
			NewService(config.SchedulerConfig{}, nil, &fakeNotificationSender{})
		})
	})

	t.Run("실패: NotificationSender 누락 시 패닉", func(t *testing.T) {
		assert.Panics(t, func() {
			NewService(config.SchedulerConfig{}, &fakeDiscoveryRunner{}, nil)
		})
	})
}

func TestScheduler_StartStop(t *testing.T) {
	t.Run("성공: 초 단위 스케줄로 발굴 작업이 실행됨", func(t *testing.T) {
		runner := &fakeDiscoveryRunner{}
		s := NewService(config.SchedulerConfig{
			Runnable: true,
			TimeSpec: "* * * * * *", // 매초 실행
		}, runner, &fakeNotificationSender{})

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}
		wg.Add(1)

		require.NoError(t, s.Start(ctx, wg))

		// 최소 1회 실행될 때까지 대기
		deadline := time.Now().Add(3 * time.Second)
		for runner.count() == 0 && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
		assert.GreaterOrEqual(t, runner.count(), 1)

		cancel()
		wg.Wait()
	})

	t.Run("성공: 비활성화된 스케줄은 작업을 등록하지 않음", func(t *testing.T) {
		runner := &fakeDiscoveryRunner{}
		s := NewService(config.SchedulerConfig{Runnable: false}, runner, &fakeNotificationSender{})

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}
		wg.Add(1)

		require.NoError(t, s.Start(ctx, wg))

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, 0, runner.count())

		cancel()
		wg.Wait()
	})

	t.Run("실패: 잘못된 Cron 표현식", func(t *testing.T) {
		s := NewService(config.SchedulerConfig{
			Runnable: true,
			TimeSpec: "invalid spec",
		}, &fakeDiscoveryRunner{}, &fakeNotificationSender{})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := s.Start(ctx, wg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cron 표현식")
	})

	t.Run("성공: 중복 Start 호출은 무시됨", func(t *testing.T) {
		s := NewService(config.SchedulerConfig{Runnable: false}, &fakeDiscoveryRunner{}, &fakeNotificationSender{})

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}

		wg.Add(1)
		require.NoError(t, s.Start(ctx, wg))

		wg.Add(1)
		require.NoError(t, s.Start(ctx, wg))

		cancel()
		wg.Wait()
	})
}
