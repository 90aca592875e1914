// Package amqp carries imported transactions from the server to the
// relay worker over a durable direct exchange.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"wealthify/internal/log"
)

const publishTimeout = 5 * time.Second

// Client owns one connection and channel. The queue is bound to the
// exchange under its own name as routing key.
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: channel, exchange: exchange, queue: queue}
	if err := c.declareTopology(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}
	return c, nil
}

func (c *Client) declareTopology() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishImportedRow publishes one imported transaction for relay.
// Deliveries are persistent so a broker restart does not lose rows.
func (c *Client) PublishImportedRow(ctx context.Context, msg *ImportedRowMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published imported row message",
		log.FieldImportID, msg.ImportID,
		log.FieldUserID, msg.UserID,
		"exchange", c.exchange,
		"queue", c.queue)
	return nil
}

// ConsumeImportedRows delivers queued rows to handler until the context
// is canceled. Unparseable messages are dropped; handler failures are
// requeued.
func (c *Client) ConsumeImportedRows(ctx context.Context, handler func(*ImportedRowMessage) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	slog.InfoContext(ctx, "Started consuming imported row messages", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := ImportedRowMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", log.FieldError, err.Error())
				delivery.Nack(false, false)
				continue
			}
			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to relay imported row",
					log.FieldError, err.Error(),
					log.FieldImportID, msg.ImportID)
				delivery.Nack(false, true)
				continue
			}
			delivery.Ack(false)
			slog.InfoContext(ctx, "Relayed imported row",
				log.FieldImportID, msg.ImportID,
				log.FieldUserID, msg.UserID)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
