package ensproxy

import (
	"encoding/json"

	"github.com/everFinance/ensproxy/schema"
	"github.com/panjf2000/ants/v2"
)

// EventSink fans observability events out to kafka without blocking the
// registration path. Events are best-effort: a failed publish is logged,
// never surfaced to the caller (the durable record is the wdb row and the
// audit store entry, written synchronously).
type EventSink struct {
	kwriters map[string]*KWriter // nil when kafka is disabled
	pool     *ants.Pool
}

func NewEventSink(kafkaUri string, enableKafka bool) (*EventSink, error) {
	var kwriters map[string]*KWriter
	if enableKafka {
		var err error
		kwriters, err = NewKWriters(kafkaUri)
		if err != nil {
			return nil, err
		}
	}
	pool, err := ants.NewPool(10)
	if err != nil {
		return nil, err
	}
	return &EventSink{
		kwriters: kwriters,
		pool:     pool,
	}, nil
}

func (e *EventSink) PushCommit(event schema.CommitEvent) {
	e.publish(CommitTopic, event)
}

func (e *EventSink) PushRegister(event schema.RegisterEvent) {
	e.publish(RegisterTopic, event)
}

func (e *EventSink) publish(topic string, event interface{}) {
	if e.kwriters == nil {
		return
	}
	kw, ok := e.kwriters[topic]
	if !ok {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal event", "err", err, "topic", topic)
		return
	}
	if err := e.pool.Submit(func() {
		if err := kw.Write(body); err != nil {
			log.Error("publish event", "err", err, "topic", topic)
		}
	}); err != nil {
		log.Error("submit event job", "err", err, "topic", topic)
	}
}

func (e *EventSink) Close() {
	e.pool.Release()
	for _, kw := range e.kwriters {
		kw.Close()
	}
}
