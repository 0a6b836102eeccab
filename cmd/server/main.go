package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"parkspot/internal/api"
	"parkspot/internal/auth"
	"parkspot/internal/broker"
	"parkspot/internal/config"
	"parkspot/internal/db"
	"parkspot/internal/repository"
	"parkspot/internal/service"
)

const memoryDatabaseURL = "memory://"

type stores struct {
	spots        repository.SpotStore
	reservations repository.ReservationStore
	users        repository.UserStore
	traces       repository.TraceStore
	completion   repository.CompletionStore
	close        func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer st.close()

	clock := service.SystemClock{}
	sinks := []service.TraceSink{service.StoreSink(st.traces)}
	if cfg.RabbitMQURL != "" {
		b, err := broker.NewBroker(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("RabbitMQ unavailable, audit events will only be stored: %v", err)
		} else {
			defer b.Close()
			sinks = append(sinks, service.PublisherSink(b))
		}
	}
	auditor := service.NewAuditor(clock, sinks...)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	policy := service.TransitionPolicy{Strict: cfg.StrictStatusTransitions}
	if !policy.Strict {
		log.Println("Strict status transitions disabled: any status change will be accepted")
	}

	reservationSvc := service.NewReservationService(st.spots, st.reservations, auditor, policy, clock)
	parkingSvc := service.NewParkingService(st.spots)
	authSvc := service.NewAuthService(st.users, tokens, auditor)
	userSvc := service.NewUserService(st.users, auditor)
	traceSvc := service.NewTraceService(st.traces)
	jobSvc := service.NewJobService(st.completion, reservationSvc, clock)

	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	scheduler, err := jobSvc.Schedule(cfg.CompletionJobSpec, cfg.RequestTimeout*6)
	if err != nil {
		log.Fatalf("Failed to schedule completion job: %v", err)
	}
	scheduler.Start()

	router := api.NewRouter(api.RouterConfig{
		Tokens:         tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		AccessLog:      os.Stdout,
	}, api.Handlers{
		Reservations: api.NewReservationHandler(reservationSvc),
		Parking:      api.NewParkingHandler(parkingSvc),
		Auth:         api.NewAuthHandler(authSvc),
		Traces:       api.NewTraceHandler(traceSvc),
		Users:        api.NewUserHandler(userSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	<-scheduler.Stop().Done()
	auditor.Wait()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if strings.HasPrefix(cfg.DatabaseURL, memoryDatabaseURL) {
		log.Println("Using in-memory storage; data is lost on restart")
		mem := repository.NewMemoryStore()
		seedDemoSpots(mem)
		return &stores{
			spots:        mem,
			reservations: mem,
			users:        mem,
			traces:       mem,
			completion:   mem,
			close:        func() error { return nil },
		}, nil
	}

	conn, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &stores{
		spots:        repository.NewParkingRepository(conn),
		reservations: repository.NewReservationRepository(conn),
		users:        repository.NewUserRepository(conn),
		traces:       repository.NewTraceRepository(conn),
		completion:   repository.NewJobRepository(conn),
		close:        conn.Close,
	}, nil
}

// seedDemoSpots gives the in-memory mode two floors with two sections each.
func seedDemoSpots(mem *repository.MemoryStore) {
	for floor := 1; floor <= 2; floor++ {
		for _, section := range []string{"A", "B"} {
			for n := 1; n <= 3; n++ {
				mem.AddSpot(db.ParkingSpot{
					ID:          uuid.NewString(),
					Number:      fmt.Sprintf("%s-%d%02d", section, floor, n),
					Floor:       floor,
					Section:     section,
					IsAvailable: true,
				})
			}
		}
	}
}
