package integration

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Env spins up the service's backing stores for integration tests: postgres
// for the ledger and orders, kafka for confirmation messages, redis for the
// suggest rate limiter.
type Env struct {
	PG        *postgres.PostgresContainer
	Kafka     *kafka.KafkaContainer
	Redis     *rediscontainer.RedisContainer
	PGURL     string
	Brokers   []string
	RedisAddr string
	cancel    context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	env := &Env{cancel: cancel}

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	if err != nil {
		env.Teardown(ctx)
		return nil, err
	}
	env.PG = pgC

	if env.PGURL, err = pgC.ConnectionString(ctx, "sslmode=disable"); err != nil {
		env.Teardown(ctx)
		return nil, err
	}

	kafkaC, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("storefront-test"),
	)
	if err != nil {
		env.Teardown(ctx)
		return nil, err
	}
	env.Kafka = kafkaC

	if env.Brokers, err = kafkaC.Brokers(ctx); err != nil {
		env.Teardown(ctx)
		return nil, err
	}

	redisC, err := rediscontainer.Run(ctx, "redis:7-alpine")
	if err != nil {
		env.Teardown(ctx)
		return nil, err
	}
	env.Redis = redisC

	endpoint, err := redisC.Endpoint(ctx, "")
	if err != nil {
		env.Teardown(ctx)
		return nil, err
	}
	env.RedisAddr = endpoint

	return env, nil
}

func (e *Env) Teardown(ctx context.Context) {
	if e.Redis != nil {
		_ = e.Redis.Terminate(ctx)
	}
	if e.Kafka != nil {
		_ = e.Kafka.Terminate(ctx)
	}
	if e.PG != nil {
		_ = e.PG.Terminate(ctx)
	}
	e.cancel()
}
