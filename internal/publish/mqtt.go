package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pquerna/ffjson/ffjson"
	"go.uber.org/zap"

	"lorawan-data-server/internal/models"
)

const publishTimeout = 5 * time.Second

type envConfig struct {
	Broker      string `env:"MQTT_BROKER"`
	ClientID    string `env:"MQTT_CLIENT_ID" envDefault:"lorawan-data-server"`
	Username    string `env:"MQTT_USERNAME"`
	Password    string `env:"MQTT_PASSWORD,unset"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"lorawan"`
	QoS         byte   `env:"MQTT_QOS" envDefault:"0"`
}

func NewConfig() (*envConfig, error) {
	cfg := &envConfig{}
	if err := env.Parse(cfg, env.Options{}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MQTTPublisher forwards stored records to <prefix>/<dev_eui>/up.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	logger *zap.Logger
}

// New returns a no-op publisher when no broker is configured.
func New(logger *zap.Logger) (Publisher, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Broker == "" {
		return Nop{}, nil
	}
	return NewMQTTPublisher(cfg, logger)
}

func NewMQTTPublisher(cfg *envConfig, logger *zap.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})

	client := mqtt.NewClient(opts)
	// with ConnectRetry the token only completes once connected, don't block startup on it
	token := client.Connect()
	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("mqtt publisher enabled",
		zap.String("broker", cfg.Broker),
		zap.String("topic_prefix", cfg.TopicPrefix))

	return &MQTTPublisher{
		client: client,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		logger: logger,
	}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, record *models.TelemetryRecord) error {
	payload, err := ffjson.Marshal(record)
	if err != nil {
		return err
	}

	topic := Topic(p.prefix, record.DevEUI)
	token := p.client.Publish(topic, p.qos, false, payload)

	wait := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

func Topic(prefix, devEUI string) string {
	return fmt.Sprintf("%s/%s/up", prefix, devEUI)
}
