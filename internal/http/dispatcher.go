package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/target/sharelink-gateway/internal/domain/share"
	apperrors "github.com/target/sharelink-gateway/internal/errors"
)

// Dispatcher owns the ordered handler chain. Handlers are sorted once at
// construction by descending rank; a stable sort keeps registration order
// for equal ranks.
type Dispatcher struct {
	handlers []Handler
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given handlers.
func NewDispatcher(logger *slog.Logger, handlers ...Handler) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	hs := make([]Handler, len(handlers))
	copy(hs, handlers)
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Rank() > hs[j].Rank() })
	return &Dispatcher{handlers: hs, logger: logger}
}

// Dispatch runs the chain for one resolved share request. It stops at the
// first ReplyAccept or ReplyDeny; if every handler stays neutral it falls
// through to not-found handling. Handler errors are caught here and
// translated to an HTTP error response; the returned reply is then ReplyDeny.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, req share.AccessRequest) Reply {
	for _, h := range d.handlers {
		reply, err := h.Handle(w, r, req)
		if err != nil {
			d.writeFailure(w, r, err)
			return ReplyDeny
		}
		if reply != ReplyNeutral {
			return reply
		}
	}
	return d.dispatchNotFound(w, r)
}

// dispatchNotFound gives each handler, in the same order, a chance to write
// its own not-found response before a generic 404 is synthesized.
func (d *Dispatcher) dispatchNotFound(w http.ResponseWriter, r *http.Request) Reply {
	status := http.StatusNotFound
	for _, h := range d.handlers {
		reply, err := h.HandleNotFound(w, r, status)
		if err != nil {
			d.writeFailure(w, r, err)
			return ReplyDeny
		}
		if reply != ReplyNeutral {
			return reply
		}
	}
	WriteError(w, ErrorParams{
		Code:    status,
		ErrCode: string(apperrors.ErrCodeUnknownShare),
		Err:     errors.New("share not found"),
	})
	return ReplyNeutral
}

// writeFailure is the single point translating a thrown failure into an
// HTTP status. Only the sole human-readable message is surfaced.
func (d *Dispatcher) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	d.logger.ErrorContext(r.Context(), "share handler failed",
		slog.Any("error", err),
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
	)
	errCode := apperrors.GetCode(err)
	if errCode == "" {
		errCode = apperrors.ErrCodeUnexpected
	}
	WriteError(w, ErrorParams{
		Code:    status,
		ErrCode: string(errCode),
		Err:     errors.New(apperrors.UserMessage(err)),
	})
}
