// Package polling — планировщик периодической синхронизации представлений
// с сервером. Один Subscription — один независимый цикл опроса: немедленный
// первый запрос, затем запрос на каждый тик таймера. Инварианты:
//
//   - запросы одной подписки не перекрываются: новый тик не срабатывает,
//     пока предыдущий запрос не разрешился;
//   - применяется только результат последнего выданного запроса, устаревшие
//     ответы отбрасываются;
//   - после Stop ни один результат не применяется и ни один тик не выполняется.
//
// Между разными подписками порядок не гарантируется.
package polling

import (
	"context"
	"log"
	"sync"
	"time"
)

// Config описывает одну подписку на опрос
type Config struct {
	// View — метка представления для метрик и логов
	View string
	// Interval — период опроса после первого немедленного запроса
	Interval time.Duration
	// Fetch выполняет сетевое чтение и возвращает свежий снимок.
	// Таймауты — ответственность самого Fetch.
	Fetch func(ctx context.Context) (interface{}, error)
	// Apply применяет снимок к состоянию представления. Вызывается
	// только для неустаревших результатов живой подписки.
	Apply func(snapshot interface{})
	// OnError получает ошибки опроса; состояние остается на последнем
	// успешном снимке, опрос продолжается. Может быть nil.
	OnError func(err error)
}

type Subscription struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	issued  uint64
	applied uint64
	stopped bool

	refetch chan struct{}
	done    chan struct{}
}

// Start запускает подписку. Первый запрос выполняется сразу, без ожидания
// первого тика. Подписка живет до Stop или отмены родительского контекста.
func Start(parent context.Context, cfg Config) *Subscription {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(parent)
	sub := &Subscription{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		refetch: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	go sub.loop()
	return sub
}

func (s *Subscription) loop() {
	defer close(s.done)

	// Немедленный первый запрос
	s.poll()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.refetch:
			s.poll()
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll выполняет один запрос. Из цикла подписки он вызывается синхронно,
// поэтому тики не перекрываются: пока запрос в полете, цикл не читает таймер.
func (s *Subscription) poll() {
	seq, ok := s.nextSeq()
	if !ok {
		return
	}

	PollsInFlight.Inc()
	start := time.Now()
	snapshot, err := s.cfg.Fetch(s.ctx)
	PollDuration.WithLabelValues(s.cfg.View).Observe(time.Since(start).Seconds())
	PollsInFlight.Dec()

	if err != nil {
		PollsTotal.WithLabelValues(s.cfg.View, "error").Inc()
		if s.ctx.Err() != nil {
			return
		}
		if s.cfg.OnError != nil {
			s.cfg.OnError(err)
		} else {
			log.Printf("Ошибка опроса %s: %v", s.cfg.View, err)
		}
		return
	}

	s.apply(seq, snapshot)
}

// nextSeq выдает порядковый номер запроса
func (s *Subscription) nextSeq() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, false
	}
	s.issued++
	return s.issued, true
}

// apply применяет снимок, если его запрос все еще последний выданный
// и подписка не остановлена
func (s *Subscription) apply(seq uint64, snapshot interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.ctx.Err() != nil {
		return
	}
	if seq != s.issued || seq <= s.applied {
		// Ответ принадлежит запросу, вытесненному более поздним
		StaleDroppedTotal.WithLabelValues(s.cfg.View).Inc()
		return
	}

	s.applied = seq
	s.cfg.Apply(snapshot)
	PollsTotal.WithLabelValues(s.cfg.View, "ok").Inc()
}

// Refetch планирует немедленный внеочередной запрос: вызывается после
// мутаций, чтобы не ждать следующего тика. Если запрос уже в полете,
// внеочередной выполнится сразу после него.
func (s *Subscription) Refetch() {
	select {
	case s.refetch <- struct{}{}:
	default:
	}
}

// ForceFetch выполняет внеочередной запрос в отдельной горутине,
// конкурируя с циклом опроса; устаревший из двух результатов будет
// отброшен по порядковому номеру
func (s *Subscription) ForceFetch() {
	go s.poll()
}

// Stop останавливает подписку: таймер снимается, результаты запросов
// в полете не применяются
func (s *Subscription) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
}

// Done закрывается после завершения цикла подписки
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
