package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a streaming transport delivering whole-snapshot messages
type Conn interface {
	// ReadMessage blocks until the next message or a transport error
	ReadMessage() ([]byte, error)

	// Close tears the transport down; a blocked ReadMessage returns with
	// an error
	Close() error
}

// Dialer opens a streaming connection to the snapshot endpoint
type Dialer func(ctx context.Context, url string) (Conn, error)

// Prober performs the readiness check; nil means ready
type Prober func(ctx context.Context, url string) error

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// DialWebsocket opens a websocket connection using the default gorilla
// dialer
func DialWebsocket(ctx context.Context, rawURL string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", rawURL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	return &wsConn{conn: conn}, nil
}

// HTTPProbe issues the readiness check against the health endpoint. Any
// non-2xx status or network failure means not ready.
func HTTPProbe(client *http.Client) Prober {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context, probeURL string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
		if err != nil {
			return fmt.Errorf("build probe request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("probe returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// StreamURL converts the HTTP base URL into the websocket stream URL
func StreamURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}
