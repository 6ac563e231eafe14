// Package kafka publica los movimientos de stock confirmados como eventos.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// EventTypeStockMovement tipo de evento en la cabecera event_type.
const EventTypeStockMovement = "stock.movement.recorded"

// MovementEvent cuerpo del mensaje publicado por cada movimiento.
type MovementEvent struct {
	EventID   string               `json:"eventId"`
	EventType string               `json:"eventType"`
	Timestamp time.Time            `json:"timestamp"`
	Movement  entity.StockMovement `json:"movement"`
}

// Publisher envuelve un productor síncrono de sarama.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewPublisher crea el productor contra los brokers indicados.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador kafka inicializado")
	return NewPublisherWithProducer(producer, topic, log), nil
}

// NewPublisherWithProducer construye el publicador sobre un productor ya creado.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log}
}

// PublishMovement envía el movimiento con el ítem como clave, así los eventos de un
// mismo artículo conservan su orden dentro de la partición.
func (p *Publisher) PublishMovement(_ context.Context, m entity.StockMovement) error {
	event := MovementEvent{
		EventID:   m.ID,
		EventType: EventTypeStockMovement,
		Timestamp: m.CreatedAt,
		Movement:  m,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(m.ItemID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeStockMovement)},
			{Key: []byte("movement_type"), Value: []byte(m.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("enviar a kafka: %w", err)
	}
	p.log.Debug().
		Str("movement_id", m.ID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("movimiento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
