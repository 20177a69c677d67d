// Package bootstrap is the compose root of the verification service:
// infrastructure first, then repositories, use cases, adapters and
// finally the HTTP server with its background workers.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/auth"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/config"
	db_conn "github.com/jacok1ng/hackyeah-2025/internal/shared/db"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/mq"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/ws"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/adapter/in/transport"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/adapter/out/out_amqp"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/adapter/out/out_ws"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/adapter/out/repo"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/usecase"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// fanoutSink hands each notification to the broker and, best effort, to
// the rider's open WebSocket. The broker handoff is the authoritative
// one: its error decides whether the delivery counts.
type fanoutSink struct {
	primary out.NotificationSink
	push    out.NotificationSink
}

func (s *fanoutSink) Deliver(ctx context.Context, n domain.Notification) error {
	_ = s.push.Deliver(ctx, n)
	return s.primary.Deliver(ctx, n)
}

// Run starts the verification service and blocks until ctx is cancelled
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "verification_service_starting", Message: "initializing verification service"})

	// infrastructure
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	if err := db_conn.Migrate(ctx, dbPool); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(mqConn, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	hub := ws.NewHub(jwtService.ExtractRider, log)
	go hub.Run(ctx)

	// repositories
	riderRepo := rider.NewPgRepository(dbPool, log)
	reportRepo := repo.NewReportPgRepository(dbPool)
	voteRepo := repo.NewVotePgRepository(dbPool)
	presenceRepo := repo.NewPresencePgRepository(dbPool)
	tripRepo := repo.NewTripPgRepository(dbPool)
	journeyRepo := repo.NewJourneyPgRepository(dbPool)
	historyRepo := repo.NewHistoryPgRepository(dbPool, cfg.Verification.HistoryLookbackDays)
	txManager := db_conn.NewTxManager(dbPool)

	// outbound sinks
	publisher := out_amqp.NewNotificationPublisher(mqConn, log)
	notifier := out_ws.NewWSNotifier(hub, log)
	sink := &fanoutSink{primary: publisher, push: notifier}

	// use cases
	presenceWindow := time.Duration(cfg.Verification.PresenceWindowMinutes) * time.Minute
	incidentWindow := time.Duration(cfg.Verification.IncidentWindowMinutes) * time.Minute

	presenceTracker := usecase.NewPresenceTracker(presenceRepo, presenceWindow, log)
	estimator := usecase.NewDelayEstimatorService(tripRepo, reportRepo, historyRepo, incidentWindow, log)
	cascade := usecase.NewDelayCascadeService(reportRepo, journeyRepo, riderRepo, presenceTracker, estimator, sink, log)
	submitVote := usecase.NewSubmitVoteService(txManager, reportRepo, voteRepo, riderRepo, presenceTracker, cascade, log)
	status := usecase.NewVerificationStatusService(reportRepo, voteRepo, riderRepo, presenceTracker)
	reports := usecase.NewReportLifecycleService(reportRepo, tripRepo, log)
	reminders := usecase.NewJourneyReminderService(journeyRepo, sink, log)

	go reminders.Run(ctx, time.Duration(cfg.Verification.ReminderPollSeconds)*time.Second)

	// HTTP
	mux := http.NewServeMux()
	handler := transport.NewHTTPHandler(reports, submitVote, status, estimator, cascade, riderRepo, jwtService, hub, log)
	handler.RegisterRoutes(mux, transport.JWTMiddleware(jwtService, log))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(logger.Entry{
				Action:  "http_shutdown_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	log.Info(logger.Entry{
		Action:  "http_server_starting",
		Message: fmt.Sprintf("listening on %s", server.Addr),
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(logger.Entry{
			Action:  "http_server_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "verification_service_stopped", Message: "shutdown complete"})
}
