package ipc

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// Client talks the control socket's line protocol.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the control socket at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Toggle asks the daemon to start or stop recording.
func (c *Client) Toggle() error {
	return c.expectOK("toggle")
}

// Cancel asks the daemon to discard the active recording.
func (c *Client) Cancel() error {
	return c.expectOK("cancel")
}

// Status returns the daemon's current state name.
func (c *Client) Status() (string, error) {
	return c.Send("status")
}

// Send writes one command line and reads the response line.
func (c *Client) Send(command string) (string, error) {
	_ = c.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintln(c.conn, command); err != nil {
		return "", fmt.Errorf("send %s: %w", command, err)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read response for %s: %w", command, err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) expectOK(command string) error {
	reply, err := c.Send(command)
	if err != nil {
		return err
	}
	if reply != responseOK {
		return fmt.Errorf("daemon rejected %s: %s", command, reply)
	}
	return nil
}
