package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/app"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	application, err := app.NewApplication(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	log.WithFields(application.Fields()).Infof("Valoriza configured, log level %s", log.GetLevel())
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
