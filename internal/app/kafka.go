package app

import (
	"github.com/IBM/sarama"

	"edupay/internal/config"
)

// NewKafkaProducer creates a synchronous Kafka producer for audit events.
// Returns nil when Kafka is disabled or no brokers are configured; audit
// events then stay log-only.
func NewKafkaProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return nil, nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5
	saramaCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
}
