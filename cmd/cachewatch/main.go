package main

import (
	"context"
	"log"

	"parkapi/internal/env"
	"parkapi/internal/service"
	"parkapi/internal/storage"
	"parkapi/models"
	"parkapi/pkg/dates"
	"parkapi/pkg/graceful"
	"parkapi/pkg/kafkaclient"
	"parkapi/pkg/keys"
	"parkapi/pkg/lastvalues"
)

func main() {
	env.LoadEnv()
	ctx, stop := graceful.Context(context.Background())
	defer stop()

	cfg, err := env.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.KafkaBroker == "" || cfg.KafkaTopic == "" || cfg.KafkaGroupID == "" {
		log.Fatalf("KAFKA_BROKER, KAFKA_TOPIC and KAFKA_GROUP_ID must be set")
	}
	if cfg.CacheBucket == "" {
		log.Fatalf("CACHE_BUCKET must be set")
	}

	s3Service, err := storage.NewS3Service(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Connecting to Kafka broker: %s on topic: %s with group ID: %s", cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID)
	consumer := kafkaclient.NewConsumer(cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBroker)
	consumer.Start(ctx)

	memory := lastvalues.NewMemorySource()
	lookup := lastvalues.NewLookup(memory)

	watcher := service.NewWatcher[*models.Snapshot](consumer, s3Service.GetSnapshot, snapshotsIn(cfg.CacheBucket))

	for obj := range watcher.Objects(ctx) {
		city, _ := keys.CityFromObject(obj.Key)
		if obj.Removed {
			memory.Delete(city)
			log.Printf("[%s] dropped cached snapshot for %s", dates.UTCNow(), city)
			continue
		}
		memory.Put(city, obj.Data)
		report(ctx, lookup, city, obj.Data)
	}

	consumer.Stop()
	log.Println("Cache watcher finished, application exiting.")
}

// snapshotsIn accepts top-level city snapshots of the cache bucket only.
func snapshotsIn(cacheBucket string) func(bucket, key string) bool {
	return func(bucket, key string) bool {
		if bucket != cacheBucket {
			return false
		}
		_, ok := keys.CityFromObject(key)
		return ok
	}
}

// report logs the total each lot of a refreshed snapshot now resolves to.
func report(ctx context.Context, lookup *lastvalues.Lookup, city string, snap *models.Snapshot) {
	stamp := dates.UTCNow()
	if snap == nil {
		log.Printf("[%s] %s: empty snapshot", stamp, city)
		return
	}

	seen := make(map[string]struct{}, len(snap.Lots))
	for _, lot := range snap.Lots {
		name, ok := lot.Name()
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		total, err := lookup.Total(ctx, city, name)
		if err != nil {
			log.Printf("[%s] %s: %v", stamp, city, err)
			continue
		}
		log.Printf("[%s] %s total=%d", stamp, keys.GenerateID(keys.CacheObject(city), name), total)
	}
}
