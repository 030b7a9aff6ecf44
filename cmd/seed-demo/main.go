package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/identity"
	"github.com/aprendia/estadistica-backend/internal/logger"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/aprendia/estadistica-backend/internal/profile"
)

// Seeds a demo student account against the identity provider and writes an
// initial record with sample progress, so a fresh environment has something
// to log in with.
func main() {
	email := flag.String("email", "demo@aprendia.test", "demo account email")
	password := flag.String("password", "demo123", "demo account password")
	nombre := flag.String("nombre", "Estudiante Demo", "display name for the record")
	nivel := flag.String("nivel", "universidad", "education level for the record")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	idClient := identity.NewClient(cfg, log)
	store := profile.NewStore(cfg.DatabaseURL(), cfg.HTTPTimeout, log)

	fmt.Println("=== Seeding Demo Student ===")

	account, err := idClient.Create(ctx, *email, *password)
	if err == identity.ErrEmailExists {
		fmt.Printf("Account %s already exists, signing in instead...\n", *email)
		account, err = idClient.Verify(ctx, *email, *password)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to provision demo account")
	}

	now := time.Now()
	record := model.NewStudentRecord(*email, *nombre, 20, *nivel, "estadística aplicada", now)

	// Give the record a little history so the dashboard is not empty.
	record.TouchTopic("Probabilidad básica", true, now.Add(-48*time.Hour))
	record.TouchTopic("Media aritmética y ponderada", false, now.Add(-24*time.Hour))
	record.AddVideosVistos("Media aritmética y ponderada", 2)
	record.AppendEvaluation(model.Evaluation{
		Tema:                 "Probabilidad básica",
		PuntajeFinal:         80,
		Fecha:                now.Add(-48 * time.Hour).Format(time.RFC3339),
		PreguntasRespondidas: 5,
		RespuestasCorrectas:  4,
	})

	if err := store.Write(ctx, account.UID, record, account.IDToken); err != nil {
		log.Fatal().Err(err).Msg("Failed to write demo record")
	}

	fmt.Printf("\nSeed completed! Demo account ready:\n  email:    %s\n  password: %s\n  uid:      %s\n", *email, *password, account.UID)
}
