package kafka

import (
	"context"

	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

type StepProducer struct {
	writer *kafka.Writer
}

// NewStepProducer создает новый экземпляр продюсера Kafka
func NewStepProducer(cfg *config.AppConfig) (interfaces.StepProducer, error) {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    cfg.KafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &StepProducer{writer: writer}, nil
}

// Produce отправляет сообщение в Kafka
func (p *StepProducer) Produce(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
}

// Close закрывает соединение с Kafka
func (p *StepProducer) Close() error {
	return p.writer.Close()
}
