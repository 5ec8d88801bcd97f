package notify

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Pusher delivers a push notification to one device token
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMPusher sends through Firebase Cloud Messaging. With no credentials file
// configured the client is nil and sends are logged instead.
type FCMPusher struct {
	client *messaging.Client
}

func NewFCMPusher(ctx context.Context, credentialsFile string) (*FCMPusher, error) {
	if credentialsFile == "" {
		log.Println("notify: no Firebase credentials, push notifications in mock mode")
		return &FCMPusher{}, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMPusher{client: client}, nil
}

func (p *FCMPusher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}
	if p.client == nil {
		short := token
		if len(short) > 10 {
			short = short[:10]
		}
		log.Printf("[MOCK FCM] To: %s... | Title: %s | Body: %s", short, title, body)
		return nil
	}
	_, err := p.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}
