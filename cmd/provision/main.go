// provision creates or tears down the sponsor-scoped RBAC roles and
// permissions for one sponsor.
//
//	go run ./cmd/provision -sponsor <id>            # provision
//	go run ./cmd/provision -sponsor <id> -destroy   # teardown
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"sponsor-platform/backend/internal/audit"
	auditrepo "sponsor-platform/backend/internal/audit/repository"
	"sponsor-platform/backend/internal/config"
	"sponsor-platform/backend/internal/db"
	membershiprepo "sponsor-platform/backend/internal/membership/repository"
	rbacrepo "sponsor-platform/backend/internal/rbac/repository"
	sponsorrepo "sponsor-platform/backend/internal/sponsor/repository"
	"sponsor-platform/backend/internal/sponsor/service"
	"sponsor-platform/backend/internal/telemetry"
	telemetryotel "sponsor-platform/backend/internal/telemetry/otel"
	"sponsor-platform/backend/internal/telemetry/producer"
	userrepo "sponsor-platform/backend/internal/user/repository"
	"sponsor-platform/backend/internal/validation"
)

func main() {
	sponsorID := flag.String("sponsor", "", "Sponsor id to provision")
	destroy := flag.Bool("destroy", false, "Tear down instead of provisioning")
	flag.Parse()

	if *sponsorID == "" {
		log.Fatal("provision: -sponsor is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "sponsor-provision", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()

	emitters := telemetry.MultiEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	kafkaProducer, err := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	if kafkaProducer != nil {
		emitters = append(emitters, kafkaProducer)
		defer kafkaProducer.Close()
	}

	svc := service.NewService(
		sponsorrepo.NewPostgresRepository(conn),
		membershiprepo.NewPostgresRepository(conn),
		userrepo.NewPostgresRepository(conn),
		rbacrepo.NewPostgresRepository(conn),
		validation.NewService(),
		audit.NewLogger(auditrepo.NewPostgresRepository(conn)),
		emitters,
	)

	if *destroy {
		if err := svc.DestroyRbacRules(ctx, *sponsorID); err != nil {
			log.Fatalf("teardown: %v", err)
		}
		log.Printf("provision: tore down rbac for sponsor %s", *sponsorID)
	} else {
		if err := svc.CreateRbacRules(ctx, *sponsorID); err != nil {
			log.Fatalf("provision: %v", err)
		}
		log.Printf("provision: provisioned rbac for sponsor %s", *sponsorID)
	}

	// Let in-flight async emits finish before shutting the providers down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
}
