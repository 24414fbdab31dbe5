package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

// ErrUnknownBuilding is returned by resolvers for building identifiers
// they do not know.
var ErrUnknownBuilding = errors.New("unknown building")

// TargetResolver maps a building identifier to its controller target.
// Building records and their authorization live outside this service;
// the daemon wires a static resolver from configuration.
type TargetResolver interface {
	Resolve(ctx context.Context, building string) (aksm.Target, error)
}

// StaticResolver serves a fixed building set.
type StaticResolver map[string]aksm.Target

func (r StaticResolver) Resolve(_ context.Context, building string) (aksm.Target, error) {
	target, ok := r[building]
	if !ok {
		return aksm.Target{}, ErrUnknownBuilding
	}
	return target, nil
}

type deviceClient interface {
	Send(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error)
}

type server struct {
	client   deviceClient
	resolver TargetResolver
	logger   *zap.Logger
}

func New(client deviceClient, resolver TargetResolver) *server {
	return &server{client: client, resolver: resolver, logger: zap.L()}
}

// Handler returns the command proxy routes.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /buildings/{building}/command", s.postCommand)
	return LoggingMiddleware(mux)
}

// postCommand forwards a raw XML command to the building's controller
// and replies with the device's status code and body verbatim. The
// three failure classes stay distinguishable for the UI: resolver
// failures are 404, a timed-out device is 504, any other transport
// failure is 502 — each carrying the underlying message. Whatever the
// device answers, including its own error codes inside the XML, passes
// through untouched.
func (s *server) postCommand(w http.ResponseWriter, r *http.Request) {
	building := r.PathValue("building")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "xml body is required", http.StatusBadRequest)
		return
	}

	target, err := s.resolver.Resolve(r.Context(), building)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownBuilding) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	res, err := s.client.Send(r.Context(), target, string(body))
	if err != nil {
		s.logger.Error("device call failed", zap.String("building", building), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, aksm.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write([]byte(res.Body))
}
