// Package mqtt publishes LUMP device telemetry to an MQTT broker.
package mqtt

import (
	"net/url"
	"strings"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps an MQTT client with a topic prefix.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
}

// ClientOptionsFromURL creates ClientOptions from a URL of the form
// mqtt://host:port/topic/prefix?client-id=xyz. Without an explicit
// client-id the id is derived from the machine id so reconnects do not
// pile up broker sessions.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")
	if topicPrefix != "" && !strings.HasSuffix(topicPrefix, "/") {
		topicPrefix += "/"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	clientID := u.Query().Get("client-id")
	if clientID == "" {
		clientID = defaultClientID()
	}
	opts.SetClientID(clientID)

	return opts, topicPrefix, nil
}

func defaultClientID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("mqtt: machine id unavailable: %v", err)
		return "lump-device"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return "lump-" + id
}

// NewQueue creates a Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	return &Queue{Client: paho.NewClient(options), TopicPrefix: topicPrefix}
}

// NewQueueFromURL creates a Queue from a URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects to the broker, blocking until done.
func (q *Queue) Connect() error {
	tok := q.Client.Connect()
	tok.Wait()
	return tok.Error()
}

// Close disconnects from the broker.
func (q *Queue) Close() {
	q.Client.Disconnect(250)
}

// Publish publishes a payload under the queue's topic prefix.
func (q *Queue) Publish(topic string, payload []byte) error {
	tok := q.Client.Publish(q.TopicPrefix+topic, 0, false, payload)
	tok.Wait()
	return tok.Error()
}

// Subscribe subscribes under the queue's topic prefix.
func (q *Queue) Subscribe(topic string, handler Handler) error {
	tok := q.Client.Subscribe(q.TopicPrefix+topic, 0, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	tok.Wait()
	return tok.Error()
}
