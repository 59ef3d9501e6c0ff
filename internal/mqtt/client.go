package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	onlinePayload  = `{"state": "online"}`
	offlinePayload = `{"state": "offline"}`

	// disconnectGrace gives the broker time to flush the offline
	// announcement before the network connection drops.
	disconnectGrace = 500 * time.Millisecond
)

// Options configures the broker connection and topic namespace.
type Options struct {
	Host      string
	Port      int
	Username  string
	Password  string
	BaseTopic string
	ClientID  string
}

// Client is a thin publisher over a long-lived paho connection. It owns the
// base topic prefix: callers publish relative topics ("current",
// "forecast/3h") and the client expands them. Presence on
// {base}/bridge/state is retained at QoS 1, with offline registered as the
// connection's last will.
type Client struct {
	c          paho.Client
	baseTopic  string
	stateTopic string
}

// New builds a client. The connection is not opened until Connect.
func New(opts Options) *Client {
	stateTopic := opts.BaseTopic + "/bridge/state"

	pahoOpts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", opts.Host, opts.Port)).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetWill(stateTopic, offlinePayload, 1, true)

	client := &Client{baseTopic: opts.BaseTopic, stateTopic: stateTopic}

	pahoOpts.SetOnConnectHandler(func(c paho.Client) {
		log.Printf("INFO: MQTT connected, announcing online state")
		if token := c.Publish(stateTopic, 1, true, onlinePayload); token.Wait() && token.Error() != nil {
			log.Printf("ERROR: failed to announce online state: %v", token.Error())
		}
	})

	client.c = paho.NewClient(pahoOpts)
	return client
}

// Connect opens the broker connection; the on-connect handler announces the
// online state once the session is up.
func (c *Client) Connect() error {
	if token := c.c.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker: %w", token.Error())
	}
	return nil
}

// Publish JSON-encodes payload and publishes it under the base topic at
// QoS 0, optionally retained.
func (c *Client) Publish(topic string, payload any, retained bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", topic, err)
	}

	full := c.baseTopic + "/" + topic
	if token := c.c.Publish(full, 0, retained, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", full, token.Error())
	}
	return nil
}

// Close announces the offline state best-effort, waits a short grace
// period, and tears down the connection. Safe to call on every exit path.
func (c *Client) Close() {
	if token := c.c.Publish(c.stateTopic, 1, true, offlinePayload); token.Wait() && token.Error() != nil {
		log.Printf("ERROR: failed to announce offline state: %v", token.Error())
	}
	time.Sleep(disconnectGrace)
	c.c.Disconnect(250)
}
