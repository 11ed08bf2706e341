package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"parkapi/internal/env"
	"parkapi/internal/storage"
	"parkapi/pkg/dates"
	"parkapi/pkg/keys"
	"parkapi/pkg/lastvalues"
)

const usage = `usage: lotcache <city> <lot name> [<last updated> <strptime format>]`

func main() {
	if len(os.Args) != 3 && len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	city, lotName := os.Args[1], os.Args[2]

	env.LoadEnv()
	cfg, err := env.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src, closeSource, err := storage.OpenSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s cache: %v", cfg.Backend, err)
	}
	defer closeSource()

	total, found, err := lastvalues.NewLookup(src).Find(ctx, city, lotName)
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}

	id := keys.GenerateID(keys.CacheObject(city), lotName)
	fmt.Printf("id=%s total=%d cached=%t checked=%s\n", id, total, found, dates.UTCNow())

	if len(os.Args) == 5 {
		updated, err := dates.ConvertDateIn(os.Args[3], os.Args[4], cfg.DefaultTimezone)
		if err != nil {
			log.Fatalf("Cannot convert last updated date: %v", err)
		}
		fmt.Printf("last_updated=%s\n", updated)
	}
}
