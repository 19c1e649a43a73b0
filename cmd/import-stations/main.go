// Command import-stations loads a polling-station CSV extract, combines it
// with the bundled reference table, and upserts the result into Firestore.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/votersetu/verification-api/internal/business/stationdata"
	"github.com/votersetu/verification-api/internal/platform/config"
	firestoreclient "github.com/votersetu/verification-api/internal/platform/firestore"
	"github.com/votersetu/verification-api/internal/repository"
	"github.com/votersetu/verification-api/pkg/util"
)

func main() {
	csvPath := flag.String("csv", "", "path to the polling-station CSV extract")
	dryRun := flag.Bool("dry-run", false, "parse and combine without writing to Firestore")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: import-stations -csv <file> [-dry-run]")
	}

	_ = godotenv.Load(".env.local", ".env")

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	stations, err := stationdata.ParseStationsCSV(f)
	if err != nil {
		log.Fatalf("parse csv: %v", err)
	}
	stations = stationdata.CombineStationData(stations, stationdata.ReferenceStations)

	for i := range stations {
		if stations[i].ID == "" {
			stations[i].ID = util.HashStationKey(stations[i].Name, stations[i].BoothNumber)
		}
	}
	log.Printf("parsed %d stations from %s", len(stations), *csvPath)

	if *dryRun {
		for _, s := range stations {
			log.Printf("  %s  %s (%s, %s)  voters=%d verifications=%d", s.ID, s.Name, s.District, s.State, s.TotalVoters, s.Stats.Total)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()
	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer client.Close()
	log.Printf("connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	repo := repository.NewStationRepository(client)
	if err := repo.BatchUpsert(ctx, stations); err != nil {
		log.Fatalf("upsert stations: %v", err)
	}
	log.Printf("imported %d stations", len(stations))
}
