// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on Messaging only. The backing broker (NATS, NSQ,
// Kafka or an in-process bus) is picked by driver name at startup.
package messaging
