package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
)

const (
	mqttQoS            = 1
	mqttPublishTimeout = 5 * time.Second
)

// MQTTPublisher publishes events to topic/<event type>, e.g.
// battery-fleet/events/history.appended.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	logger := common.GetLoggerWith(common.LoggerNameEvents, zap.String("sink", "mqtt"))

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Error("MQTT connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("MQTT publisher connected", zap.String("broker", broker))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttPublishTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt: connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", broker, err)
	}

	return NewMQTTPublisherWithClient(client, topic), nil
}

func NewMQTTPublisherWithClient(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

func (p *MQTTPublisher) TopicFor(event Event) string {
	return p.topic + "/" + string(event.Type)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if !p.client.IsConnected() {
		return errors.New("mqtt: client is not connected")
	}

	payload, err := event.Encode()
	if err != nil {
		return err
	}

	token := p.client.Publish(p.TopicFor(event), mqttQoS, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(mqttPublishTimeout):
		return errors.New("mqtt: publish timed out")
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
