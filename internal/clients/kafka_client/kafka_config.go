package kafka_client

import "github.com/Oualid-Nouari/CineMood-sentiment-analysis/config"

type KafkaConfig struct {
	Broker       string
	GroupID      string
	RequestTopic string
	ResultTopic  string
}

func NewKafkaConfig(cfg *config.Config) KafkaConfig {
	return KafkaConfig{
		Broker:       cfg.KafkaBroker,
		GroupID:      cfg.KafkaGroupID,
		RequestTopic: cfg.KafkaRequestTopic,
		ResultTopic:  cfg.KafkaResultTopic,
	}
}
