package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/repository"
)

var systemPrincipal = auth.Principal{ID: SystemActor, Role: db.RoleAdmin}

type JobService struct {
	Repo         repository.CompletionStore
	Reservations *ReservationService
	Clock        Clock
}

func NewJobService(repo repository.CompletionStore, reservations *ReservationService, clock Clock) *JobService {
	return &JobService{Repo: repo, Reservations: reservations, Clock: clock}
}

// CompleteFinishedReservations moves confirmed reservations whose window has
// ended to completed. A failure on one reservation does not stop the rest.
func (s *JobService) CompleteFinishedReservations(ctx context.Context) (int, error) {
	log.Println("Cron Job: Checking for reservations to mark as 'completed'...")

	ids, err := s.Repo.ListEndedReservationIDs(ctx, []db.ReservationStatus{db.StatusConfirmed}, s.Clock.Now())
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get confirmed reservations past end time: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed reservations found past their end time.")
		return 0, nil
	}

	log.Printf("Cron Job: Found %d reservations to mark as 'completed'. IDs: %v", len(ids), ids)

	completed := 0
	for _, id := range ids {
		if _, err := s.Reservations.ChangeStatus(ctx, systemPrincipal, id, db.StatusCompleted); err != nil {
			log.Printf("Cron Job: could not complete reservation %s: %v", id, err)
			continue
		}
		completed++
	}

	log.Printf("Cron Job: Successfully updated %d reservations to 'completed'.", completed)
	return completed, nil
}

// Schedule registers the completion job on a new cron runner. The caller
// starts and stops the runner.
func (s *JobService) Schedule(spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := s.CompleteFinishedReservations(ctx); err != nil {
			log.Printf("Cron Job: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid completion job schedule %q: %w", spec, err)
	}
	return c, nil
}
