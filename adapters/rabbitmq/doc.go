/*
Package rabbitmq provides a RabbitMQ bridge for the mediator.
It forwards messages to a topic exchange using the subject as routing key, includes an
auto-reconnect publisher, and supports optional header propagation via a
handler.HeaderPropagator.
*/
package rabbitmq
