package main

import (
	"flag"
	"log"

	"github.com/mechashelf/admin/internal/app"
	"github.com/mechashelf/admin/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the console configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("initialize console: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
