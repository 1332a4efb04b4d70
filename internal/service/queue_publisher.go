// Package service publishes domain events to RabbitMQ. Errors are logged
// and returned so callers can decide whether a failed publish should fail
// the request; for the price audit trail it should not.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mahirlabib/pricescope/internal/queue"
)

// PublishPriceChanged sends a PriceChangedEvent to the durable
// product.price_changed queue.
func PublishPriceChanged(ctx context.Context, event queue.PriceChangedEvent) error {
	return publishJSON(ctx, queue.PriceChangedQueue, event)
}

// PublishOTPEmail hands a one-time code to the mail worker via the
// email.otp queue. This is the whole notifier surface: the API process
// never talks SMTP itself.
func PublishOTPEmail(ctx context.Context, event queue.OTPEmailEvent) error {
	return publishJSON(ctx, queue.OTPEmailQueue, event)
}

func publishJSON(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
