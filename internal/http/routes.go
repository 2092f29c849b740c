package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/sharelink-gateway/internal/errors"
	"github.com/target/sharelink-gateway/internal/ports"
)

// RouterServices holds the collaborators needed by the HTTP router.
type RouterServices struct {
	Resolver   ports.ShareResolver
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

// NewRouter creates and configures the HTTP router for share-link access.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	h := &ShareHandlers{
		Resolver:   services.Resolver,
		Dispatcher: services.Dispatcher,
		Logger:     logger,
	}
	mux.HandleFunc("GET /share/{token}", h.Access)
	mux.HandleFunc("GET /share/{token}/{path...}", h.Access)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

// ShareHandlers serves inbound share-link requests: it resolves the token
// into an access request and hands it to the handler chain.
type ShareHandlers struct {
	Resolver   ports.ShareResolver
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

// Access handles GET /share/{token}[/{path...}].
func (h *ShareHandlers) Access(w http.ResponseWriter, r *http.Request) {
	ref := ports.Reference{
		Token: r.PathValue("token"),
		Path:  r.PathValue("path"),
		Query: r.URL.Query(),
	}

	req, err := h.Resolver.Resolve(r.Context(), ref)
	if err != nil {
		status := apperrors.StatusCode(err)
		h.Logger.InfoContext(r.Context(), "share resolution failed",
			slog.Any("error", err),
			slog.Int("status", status),
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
		return
	}

	reply := h.Dispatcher.Dispatch(w, r, req)
	h.Logger.DebugContext(r.Context(), "share dispatched",
		slog.String("reply", reply.String()),
		slog.String("token", ref.Token),
	)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
