package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

func setupKafka(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")
	return brokers[0]
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestKafkaPublisher_DeliversToBroker(t *testing.T) {
	brokerAddr := setupKafka(t)
	topic := "cart-events-test"
	createTopic(t, brokerAddr, topic)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pub := NewKafkaPublisher(topic, brokerAddr)
	sent := []CartEvent{
		NewCartEvent(CartItemAdded, "a@shop.com", "p1", 1),
		NewCartEvent(CartQuantityUpdated, "a@shop.com", "p1", 4),
		NewCartEvent(CartItemRemoved, "a@shop.com", "p1", 0),
	}
	for _, e := range sent {
		require.NoError(t, pub.Publish(ctx, e))
	}
	// Close flushes the async batch.
	require.NoError(t, pub.Close())

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    topic,
		GroupID:  "cart-events-test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Same key, same partition: events arrive in publish order.
	for _, want := range sent {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a@shop.com", string(msg.Key))

		var got CartEvent
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Type, got.Type)
	}
}
