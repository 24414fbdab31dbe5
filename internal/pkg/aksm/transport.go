package aksm

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	commandPath = "/html/xml.cgi"

	// DefaultTimeout bounds one device exchange end to end.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrTimeout marks a device call that exceeded its deadline.
	ErrTimeout = errors.New("device timeout")
	// ErrUnreachable marks every other transport failure: refused,
	// unroutable, TLS handshake failure, broken read.
	ErrUnreachable = errors.New("device unreachable")
)

// Target identifies one building's controller for the duration of a
// single call. There is no process-wide current target; every call
// carries its own.
type Target struct {
	Host        string
	Port        int
	Credentials Credentials
}

func (t Target) url() string {
	return "https://" + t.Host + ":" + strconv.Itoa(t.Port) + commandPath
}

// TransportError is a failed device call. Kind is ErrTimeout or
// ErrUnreachable so callers can match with errors.Is; Err keeps the
// underlying message, which the UI surfaces verbatim.
type TransportError struct {
	Kind error
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return e.Kind.Error() + ": " + e.URL + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == e.Kind }

// Response is the verbatim outcome of one completed HTTP exchange.
// Any status code counts as completed transport; interpreting Body is
// the decoder's job, not the gateway's.
type Response struct {
	StatusCode int
	Body       string
}

// Client posts XML commands to AK-SM controllers. Field devices rarely
// carry CA-issued certificates, so TLS verification is disabled while
// plaintext is never used. Connections are not reused: the endpoint is
// a one-shot CGI. Safe for concurrent use; the client holds no per-call
// state.
type Client struct {
	hc     *http.Client
	logger *zap.Logger
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
				DisableKeepAlives: true,
			},
		},
		logger: zap.L(),
	}
}

// Send injects the target's credentials into body and POSTs it to the
// device's command endpoint. A completed exchange returns status and
// body verbatim, whatever the status code; failures return a
// *TransportError. Calls are one-shot, never retried here.
func (c *Client) Send(ctx context.Context, target Target, body string) (*Response, error) {
	u := target.url()
	payload := InjectCredentials(body, target.Credentials)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Kind: ErrUnreachable, URL: u, Err: err}
	}
	req.Header.Set("Content-Type", "application/xml")

	c.logger.Debug("sending command", zap.String("url", u), zap.Int("body_bytes", len(payload)))
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: u, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Kind: classify(err), URL: u, Err: err}
	}

	c.logger.Debug("received response",
		zap.String("url", u),
		zap.Int("status", res.StatusCode),
		zap.Int("body_bytes", len(data)))
	return &Response{StatusCode: res.StatusCode, Body: string(data)}, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrUnreachable
}
