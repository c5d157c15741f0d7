package fetch

import (
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/lneto/http/httpraw"
	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
)

// Defaults for StackClient.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultTCPBufSize      = 2030 // MTU - ethhdr - iphdr - tcphdr
	DefaultResponseBufSize = 1024
)

// StackClient issues HTTP GET requests over an lneto TCP connection. It
// holds a single connection and response buffer, so responses longer than
// ResponseBufSize are cut and the returned body is only valid until the next
// Get.
type StackClient struct {
	Stack *xnet.StackAsync
	// Timeout bounds the whole request after the TCP handshake.
	Timeout         time.Duration
	TCPBufSize      int
	ResponseBufSize int
	Logger          *slog.Logger

	conn       tcp.Conn
	configured bool
	hdr        httpraw.Header
	req        []byte
	resp       []byte
}

var _ Getter = (*StackClient)(nil)

// Get resolves the URL host, dials, sends the request and reads until the
// server closes the connection, the buffer fills or the deadline passes.
func (c *StackClient) Get(rawURL string) (int, []byte, error) {
	const pollTime = 5 * time.Millisecond
	logger := c.logger()

	t, err := parseTarget(rawURL)
	if err != nil {
		return 0, nil, err
	}
	if c.Stack == nil {
		return 0, nil, errors.New("stack not ready")
	}
	if err := c.configure(); err != nil {
		return 0, nil, err
	}

	rstack := c.Stack.StackRetrying(pollTime)

	// Try to parse as IP first, otherwise DNS lookup
	var addr netip.Addr
	if parsed, err := netip.ParseAddr(t.host); err == nil {
		addr = parsed
	} else {
		logger.Info("dns:resolving " + t.host)
		addrs, err := rstack.DoLookupIP(t.host, 5*time.Second, 3)
		if err != nil {
			return 0, nil, errors.New("dns lookup for " + t.host + ": " + err.Error())
		}
		if len(addrs) == 0 {
			return 0, nil, errors.New("dns lookup for " + t.host + ": no addresses returned")
		}
		addr = addrs[0]
	}

	localPort := uint16(c.Stack.Prand32()>>17) + 1024
	logger.Info("socket:dialing", slog.String("addr", addr.String()), slog.Uint64("localPort", uint64(localPort)))
	err = rstack.DoDialTCP(&c.conn, localPort, netip.AddrPortFrom(addr, t.port), c.timeout(), 3)
	if err != nil {
		c.closeConn("dial failed: " + err.Error())
		return 0, nil, errors.New("dial " + t.hostHeader + ": " + err.Error())
	}
	defer c.closeConn("request done")

	deadline := time.Now().Add(c.timeout())
	c.conn.SetDeadline(deadline)

	c.req, err = appendRequest(c.req[:0], &c.hdr, t)
	if err != nil {
		return 0, nil, err
	}
	_, err = c.conn.Write(c.req)
	if err != nil {
		return 0, nil, errors.New("write request: " + err.Error())
	}

	n := 0
	for n < len(c.resp) && time.Now().Before(deadline) {
		m, err := c.conn.Read(c.resp[n:])
		n += m
		if err != nil {
			if !errors.Is(err, io.EOF) && n == 0 {
				return 0, nil, errors.New("read response: " + err.Error())
			}
			break
		}
		if m == 0 {
			time.Sleep(pollTime)
		}
	}

	status, body, err := parseResponse(c.resp[:n])
	if err != nil {
		return 0, nil, err
	}
	logger.Info("http:response", slog.Int("status", status), slog.Int("len", len(body)))
	return status, body, nil
}

func (c *StackClient) configure() error {
	if c.configured {
		return nil
	}
	bufSize := c.TCPBufSize
	if bufSize <= 0 {
		bufSize = DefaultTCPBufSize
	}
	respSize := c.ResponseBufSize
	if respSize <= 0 {
		respSize = DefaultResponseBufSize
	}
	err := c.conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, bufSize),
		TxBuf:             make([]byte, bufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return errors.New("tcp configure:" + err.Error())
	}
	c.resp = make([]byte, respSize)
	c.req = make([]byte, 0, 128)
	c.configured = true
	return nil
}

func (c *StackClient) closeConn(reason string) {
	c.logger().Debug("tcpconn:closing", slog.String("reason", reason))
	c.conn.Close()
	// Wait for connection to close
	for i := 0; i < 50 && !c.conn.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	c.conn.Abort()
}

func (c *StackClient) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *StackClient) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
