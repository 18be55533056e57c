package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
)

const DefaultTopicPrefix = "device-health"

type MQTTOptions struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	QoS            byte
	Retained       bool
	ConnectTimeout time.Duration
}

type MQTTDispatcher struct {
	client mqtt.Client
	opts   MQTTOptions
}

func NewMQTTDispatcher(opts MQTTOptions) (*MQTTDispatcher, error) {
	if opts.BrokerURL == "" {
		return nil, fmt.Errorf("mqtt broker url is required")
	}
	if opts.ClientID == "" {
		opts.ClientID = fmt.Sprintf("device-health-%d", time.Now().UnixNano())
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	logger := common.GetLoggerWith(common.LoggerNameNotify)

	co := mqtt.NewClientOptions()
	co.AddBroker(opts.BrokerURL)
	co.SetClientID(opts.ClientID)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}
	co.SetCleanSession(true)
	co.SetAutoReconnect(true)
	co.SetConnectTimeout(opts.ConnectTimeout)
	co.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("MQTT connected", zap.String("broker", opts.BrokerURL))
	})
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	client := mqtt.NewClient(co)
	token := client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker: timed out after %s", opts.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}

	return NewMQTTDispatcherWithClient(client, opts), nil
}

func NewMQTTDispatcherWithClient(client mqtt.Client, opts MQTTOptions) *MQTTDispatcher {
	if opts.TopicPrefix == "" {
		opts.TopicPrefix = DefaultTopicPrefix
	}
	return &MQTTDispatcher{client: client, opts: opts}
}

// Topic is <prefix>/centri/<centro_id>/<kind> for centro events and
// <prefix>/customers/<customer_id>/<kind> for customer events.
func (d *MQTTDispatcher) Topic(event Event) string {
	if event.Audience == AudienceCustomer {
		return fmt.Sprintf("%s/customers/%s/%s", d.opts.TopicPrefix, event.CustomerID, event.Kind)
	}
	return fmt.Sprintf("%s/centri/%s/%s", d.opts.TopicPrefix, event.CentroID, event.Kind)
}

func (d *MQTTDispatcher) Dispatch(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	token := d.client.Publish(d.Topic(event), d.opts.QoS, d.opts.Retained, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", event.Kind, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MQTTDispatcher) Close() error {
	if d.client.IsConnected() {
		d.client.Disconnect(250)
	}
	return nil
}
