package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// MessageSender is the part of *azservicebus.Sender used for dispatch.
type MessageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

type ServiceBusDispatcher struct {
	client *azservicebus.Client
	sender MessageSender
}

func NewServiceBusDispatcher(connectionString, queue string) (*ServiceBusDispatcher, error) {
	client, err := azservicebus.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create service bus client: %w", err)
	}

	sender, err := client.NewSender(queue, nil)
	if err != nil {
		_ = client.Close(context.Background())
		return nil, fmt.Errorf("create service bus sender: %w", err)
	}

	return &ServiceBusDispatcher{client: client, sender: sender}, nil
}

func NewServiceBusDispatcherWithSender(sender MessageSender) *ServiceBusDispatcher {
	return &ServiceBusDispatcher{sender: sender}
}

func (d *ServiceBusDispatcher) Dispatch(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	contentType := "application/json"
	subject := string(event.Kind)
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"kind":      string(event.Kind),
			"audience":  string(event.Audience),
			"centro_id": event.CentroID,
			"timestamp": event.OccurredAt.Unix(),
		},
	}

	if err := d.sender.SendMessage(ctx, msg, nil); err != nil {
		return fmt.Errorf("send %s to service bus: %w", event.Kind, err)
	}
	return nil
}

func (d *ServiceBusDispatcher) Close() error {
	ctx := context.Background()
	if d.sender != nil {
		if err := d.sender.Close(ctx); err != nil {
			return err
		}
	}
	if d.client != nil {
		return d.client.Close(ctx)
	}
	return nil
}
