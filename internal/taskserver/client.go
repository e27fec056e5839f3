package taskserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
)

// Client submits tasks to a Server.
type Client struct {
	addr    string
	timeout time.Duration
}

// NewClient creates a client for the server at addr. A non-positive timeout
// selects DefaultTimeout.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{addr: addr, timeout: timeout}
}

// Connect establishes a connection to the server.
func (c *Client) Connect(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, vetErrors.NetworkError("failed to connect to task server", err).
			WithDetail("address", c.addr).
			WithSuggestion("Start the server with 'logvet serve'")
	}
	return conn, nil
}

// Submit sends task and waits for its response. A failed task is returned
// as a Response with Status "failed", not as an error.
func (c *Client) Submit(ctx context.Context, task Task) (*Response, error) {
	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	// Set deadline from context or timeout
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(task); err != nil {
		return nil, vetErrors.NetworkError("failed to send task", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, vetErrors.New(vetErrors.ErrCodeBadResponse, "failed to read task response", err)
	}
	if resp.Status != StatusSuccess && resp.Status != StatusFailed {
		return nil, vetErrors.New(vetErrors.ErrCodeBadResponse,
			fmt.Sprintf("unknown response status %q", resp.Status), nil)
	}
	return &resp, nil
}
