package events

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/gridbuild/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOEventName is the socket.io event every build event is emitted as.
const SocketIOEventName = "build_event"

// SocketIOOptions configures the connection of a SocketIOListener.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SocketIOListener streams build events to a socket.io server, typically a
// build dashboard. Emits are fire-and-forget.
type SocketIOListener struct {
	client *socket.Socket
}

// DialSocketIO connects to the server and waits for the connection to be
// confirmed, the context to end, or the connect timeout to pass.
func DialSocketIO(ctx context.Context, opts SocketIOOptions) (*SocketIOListener, error) {
	logger := ctxlog.FromContext(ctx).With("listener", "socketio", "url", opts.URL)
	logger.Debug("Connecting build event stream...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events URL: %w", err)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Build event stream connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOListener{client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// OnEvent implements Listener.
func (l *SocketIOListener) OnEvent(ctx context.Context, e Event) {
	ctxlog.FromContext(ctx).Debug("Emitting build event.", "event", SocketIOEventName, "kind", string(e.Kind))
	l.client.Emit(SocketIOEventName, Payload(e))
}

// Close disconnects from the server.
func (l *SocketIOListener) Close() error {
	l.client.Disconnect()
	return nil
}

// Payload converts an event to the JSON friendly shape sent on the wire.
func Payload(e Event) map[string]any {
	p := map[string]any{
		"kind":   string(e.Kind),
		"run_id": e.RunID,
		"time":   e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.Task != "" {
		p["task"] = e.Task
	}
	if len(e.Chain) > 0 {
		p["chain"] = e.Chain
	}
	if e.Err != nil {
		p["error"] = e.Err.Error()
	}
	return p
}
