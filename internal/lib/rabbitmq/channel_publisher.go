package rabbitmq

import "github.com/streadway/amqp"

// ChannelPublisher адаптирует канал AMQP к интерфейсу публикации сервисов.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

// Publish публикует сообщение через обернутый канал.
func (p *ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return PublishMessage(p.Ch, exchange, routingKey, message)
}
