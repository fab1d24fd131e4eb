package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// EventHandler processa um evento consumido da fila.
type EventHandler interface {
	HandleSponsorEvent(ctx context.Context, event entity.SponsorEvent) error
}

// consumer é satisfeito por *amqp.Channel.
type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel consumer
	Handler EventHandler
	Logger  *zap.Logger
}

func NewWorker(ch consumer, handler EventHandler, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel: ch,
		Handler: handler,
		Logger:  logger,
	}
}

// Start registra o consumidor e bloqueia até ctx ser cancelado ou o canal
// de entregas fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("worker aguardando eventos", zap.String("queue", queueName))
	w.run(ctx, msgs)
	return nil
}

func (w *Worker) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker encerrado")
			return
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("canal de entregas fechado")
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.SponsorEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("evento com JSON inválido", zap.Error(err))
		// Mensagem podre: vai para a DLQ sem requeue
		_ = d.Nack(false, false)
		return
	}

	if err := w.Handler.HandleSponsorEvent(ctx, event); err != nil {
		w.Logger.Error("falha ao processar evento",
			zap.String("type", string(event.Type)),
			zap.String("sponsor_id", event.SponsorID),
			zap.Error(err),
		)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
