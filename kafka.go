package ensproxy

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const (
	CommitTopic   = "ensproxy_commitment"
	RegisterTopic = "ensproxy_registration"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	err := kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

func NewKWriters(uri string) (map[string]*KWriter, error) {
	commitWriter, err := NewKWriter(CommitTopic, uri)
	if err != nil {
		return nil, err
	}
	registerWriter, err := NewKWriter(RegisterTopic, uri)
	if err != nil {
		return nil, err
	}
	return map[string]*KWriter{
		CommitTopic:   commitWriter,
		RegisterTopic: registerWriter,
	}, nil
}
