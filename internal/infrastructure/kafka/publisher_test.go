package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/kafka"
)

func movement() entity.StockMovement {
	return entity.StockMovement{
		ID: "mov-1", ItemID: "itm-ghee", BatchID: "bat-1", Type: entity.MovementTypeIssue,
		Quantity: decimal.NewFromInt(-2), Reason: "lámparas", Actor: "usr-1",
		CreatedAt: time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC),
	}
}

func TestPublishMovement_EnviaEventoConClaveDelArticulo(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "itm-ghee" {
			return errors.New("clave inesperada: " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var ev kafka.MovementEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if ev.EventType != kafka.EventTypeStockMovement || ev.Movement.ID != "mov-1" {
			return errors.New("evento inesperado")
		}
		return nil
	})

	p := kafka.NewPublisherWithProducer(producer, "stock-movements", zerolog.Nop())
	require.NoError(t, p.PublishMovement(context.Background(), movement()))
	require.NoError(t, p.Close())
}

func TestPublishMovement_ErrorDelBroker(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewPublisherWithProducer(producer, "stock-movements", zerolog.Nop())
	err := p.PublishMovement(context.Background(), movement())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
