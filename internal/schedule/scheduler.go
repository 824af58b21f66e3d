package schedule

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Job описывает периодическую задачу; tick начинается с 1.
type Job func(ctx context.Context, tick int) error

// Scheduler запускает задачи с фиксированным интервалом.
type Scheduler struct {
	interval time.Duration
	jobs     []Job
	wg       sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// New создает scheduler с заданным интервалом; неположительный интервал заменяется секундой.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{interval: interval}
}

// Add добавляет задачу в расписание.
func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run выполняет задачи сразу и затем на каждом тике, пока не пройдет count
// тиков (при count <= 0 до отмены контекста). Отмена контекста ошибкой не
// считается: вызывающий проверяет ctx.Err() сам. Возвращает ошибки задач.
func (s *Scheduler) Run(ctx context.Context, count int) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	tick := 0
	for {
		tick++
		s.fire(ctx, tick)
		if count > 0 && tick >= count {
			s.wg.Wait()
			return s.joined()
		}
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return s.joined()
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, tick int) {
	for _, job := range s.jobs {
		job := job
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := job(ctx, tick); err != nil {
				s.mu.Lock()
				s.errs = append(s.errs, err)
				s.mu.Unlock()
			}
		}()
	}
}

func (s *Scheduler) joined() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}
