package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"rosa-studio-server/modules/common/model"
)

// StartWorker - watch the variation queue. Jobs are generated one at a
// time per goroutine; the per-session in-flight id keeps the UI at one
// visible variation at a time.
func (s *Service) StartWorker(ctx context.Context) {
	if s.rdb == nil {
		log.Println("⚠️  [Catalog] Redis not available, variation jobs run in-process")
		return
	}

	go func() {
		log.Printf("👀 [Catalog] Watching queue: %s", queueName)
		for {
			if ctx.Err() != nil {
				return
			}

			result, err := s.rdb.BRPop(ctx, 5*time.Second, queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				log.Printf("❌ [Catalog] Redis BRPOP error: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			var job model.VariationJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Printf("❌ [Catalog] Malformed variation job dropped: %v", err)
				continue
			}

			log.Printf("🎯 [Catalog] Received variation job: %s", job.JobID)
			go s.ProcessVariation(ctx, &job)
		}
	}()
}
