// Package scheduler runs the periodic connection test evaluator. On every
// tick it loads enabled schedules whose next run time has passed, probes the
// owning application's connections, records results and recomputes the next
// run. Execution is single-flight per schedule: overlapping ticks never run
// the same schedule twice concurrently.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"camsapi/models"
	"camsapi/pkg/hub"
	"camsapi/pkg/logger"
	"camsapi/repository"
	"camsapi/services/probe"
	"camsapi/services/validation"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunResult summarizes one schedule execution, broadcast to the
// "schedule:<application id>" group.
type RunResult struct {
	ApplicationID uint      `json:"application_id"`
	ScheduleID    uint      `json:"schedule_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	Passed        int       `json:"passed"`
	Failed        int       `json:"failed"`
	DurationMs    int64     `json:"duration_ms"`
	RanAt         time.Time `json:"ran_at"`
}

// Scheduler evaluates connection test schedules in the background.
type Scheduler struct {
	scheduleRepo repository.ScheduleRepository
	connRepo     repository.ConnectionRepository
	prober       probe.Prober
	clock        Clock
	hub          *hub.Hub
	tick         time.Duration
	probeTimeout time.Duration

	mu       sync.Mutex
	inFlight map[uint]bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped bool
}

var (
	instance *Scheduler
	once     sync.Once
)

// Get returns the singleton scheduler built from the global configuration.
func Get(tick, probeTimeout time.Duration) *Scheduler {
	once.Do(func() {
		instance = New(
			repository.NewScheduleRepository(),
			repository.NewConnectionRepository(),
			probe.New(),
			systemClock{},
			hub.Get(),
			tick,
			probeTimeout,
		)
	})
	return instance
}

// New creates a scheduler with explicit dependencies. Used directly by tests.
func New(
	scheduleRepo repository.ScheduleRepository,
	connRepo repository.ConnectionRepository,
	prober probe.Prober,
	clock Clock,
	h *hub.Hub,
	tick, probeTimeout time.Duration,
) *Scheduler {
	return &Scheduler{
		scheduleRepo: scheduleRepo,
		connRepo:     connRepo,
		prober:       prober,
		clock:        clock,
		hub:          h,
		tick:         tick,
		probeTimeout: probeTimeout,
		inFlight:     make(map[uint]bool),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start launches the evaluator loop.
func (s *Scheduler) Start() {
	go s.loop()
	logger.Infof("Connection test scheduler started (tick=%v)", s.tick)
}

// Stop terminates the evaluator loop and waits for it to exit. In-flight
// runs finish on their own goroutines.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
	logger.Infof("Connection test scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Evaluate()
		}
	}
}

// Evaluate runs one due-check pass. Exported so tests can drive the
// scheduler without the ticker.
func (s *Scheduler) Evaluate() {
	now := s.clock.Now()
	due, err := s.scheduleRepo.ListDue(nil, now)
	if err != nil {
		logger.Errorf("Scheduler: failed to list due schedules: %v", err)
		return
	}

	for i := range due {
		schedule := due[i]
		if !s.tryAcquire(schedule.ID) {
			logger.Debugf("Scheduler: schedule %d already running, skipping", schedule.ID)
			continue
		}
		go func() {
			defer s.release(schedule.ID)
			s.runSchedule(&schedule)
		}()
	}
}

func (s *Scheduler) tryAcquire(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

func (s *Scheduler) release(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// runSchedule probes every connection of the application and records the
// aggregate outcome. Failures are recorded, never retried.
func (s *Scheduler) runSchedule(schedule *models.ConnectionTestSchedule) {
	start := s.clock.Now()

	conns, err := s.connRepo.ListByApplication(nil, schedule.ApplicationID)
	if err != nil {
		logger.Errorf("Scheduler: failed to load connections for application %d: %v",
			schedule.ApplicationID, err)
		s.recordRun(schedule, start, models.ScheduleRunFailed,
			fmt.Sprintf("failed to load connections: %v", err), 0, 0)
		return
	}

	passed, failed := 0, 0
	var firstFailure string
	for i := range conns {
		conn := &conns[i]

		ctx, cancel := context.WithTimeout(context.Background(), s.probeTimeout)
		result := s.prober.Probe(ctx, conn)
		cancel()

		testedAt := s.clock.Now()
		if err := s.connRepo.UpdateTestResult(nil, conn.ID, result.Success, result.Message,
			result.Duration.Milliseconds(), testedAt); err != nil {
			logger.Errorf("Scheduler: failed to persist test result for connection %d: %v", conn.ID, err)
		}

		if result.Success {
			passed++
		} else {
			failed++
			if firstFailure == "" {
				firstFailure = fmt.Sprintf("%s: %s", conn.Name, result.Message)
			}
		}
	}

	status := models.ScheduleRunPassed
	message := fmt.Sprintf("%d/%d connections healthy", passed, passed+failed)
	switch {
	case failed > 0 && passed == 0:
		status = models.ScheduleRunFailed
		message = firstFailure
	case failed > 0:
		status = models.ScheduleRunPartial
		message = fmt.Sprintf("%d/%d connections healthy; first failure: %s",
			passed, passed+failed, firstFailure)
	}

	s.recordRun(schedule, start, status, message, passed, failed)
}

func (s *Scheduler) recordRun(schedule *models.ConnectionTestSchedule, start time.Time, status, message string, passed, failed int) {
	finished := s.clock.Now()
	elapsed := finished.Sub(start)

	nextRun := finished
	if cronSchedule, err := validation.CronSchedule(schedule.CronExpression); err == nil {
		nextRun = cronSchedule.Next(finished)
	} else {
		// A schedule whose expression no longer parses would fire every tick;
		// push it a day out and surface the problem in the run message.
		logger.Errorf("Scheduler: stored cron %q for schedule %d no longer parses: %v",
			schedule.CronExpression, schedule.ID, err)
		nextRun = finished.Add(24 * time.Hour)
		message = fmt.Sprintf("invalid cron expression: %v", err)
		status = models.ScheduleRunFailed
	}

	if err := s.scheduleRepo.UpdateRunResult(nil, schedule.ID, finished, status, message,
		elapsed.Milliseconds(), nextRun); err != nil {
		logger.Errorf("Scheduler: failed to record run for schedule %d: %v", schedule.ID, err)
		return
	}

	logger.Infof("Scheduler: schedule %d (application %d) ran with status=%s in %v, next run %v",
		schedule.ID, schedule.ApplicationID, status, elapsed, nextRun)

	if s.hub != nil {
		s.hub.Broadcast(fmt.Sprintf("schedule:%d", schedule.ApplicationID), RunResult{
			ApplicationID: schedule.ApplicationID,
			ScheduleID:    schedule.ID,
			Status:        status,
			Message:       message,
			Passed:        passed,
			Failed:        failed,
			DurationMs:    elapsed.Milliseconds(),
			RanAt:         finished,
		})
	}
}
