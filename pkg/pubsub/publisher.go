package pubsub

import "context"

// Pack is a single message unit. Key determines the partition assignment so
// all messages of one recipient keep their order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
