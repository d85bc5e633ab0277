// Package httpproof exposes proof construction over HTTP:
// GET /proof/<tx_id> and GET /proof/<tx_id>/<log_idx>, each returning
// {"proof": "<hex>"}. It is a thin façade over pkg/proof and never
// retries. A malformed path is answered with 400; every proof
// construction failure is logged and answered with 404; cache failures
// do not fail the request.
package httpproof

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/chain"
	"github.com/clearmatics/lithium/pkg/proof"
	"github.com/clearmatics/lithium/pkg/proofcache"
)

// Server serves transaction and log inclusion proofs over HTTP.
type Server struct {
	rpc        chain.SourceRPC
	cache      proofcache.Cache // optional
	logger     *zap.Logger
	httpServer *http.Server
}

// Config configures a Server.
type Config struct {
	Addr  string
	RPC   chain.SourceRPC
	Cache proofcache.Cache // optional; nil disables caching
	// Authenticate validates a bearer token, returning an error if it
	// does not. Nil disables authentication.
	Authenticate func(ctx context.Context, bearerToken string) error
}

// New builds a Server per cfg.
func New(cfg Config, logger *zap.Logger) *Server {
	s := &Server{rpc: cfg.RPC, cache: cfg.Cache, logger: logger}

	mux := http.NewServeMux()
	handler := s.withAuth(cfg.Authenticate, http.HandlerFunc(s.handleProof))
	mux.Handle("/proof/", handler)

	s.httpServer = &http.Server{Addr: cfg.Addr, Handler: mux}
	return s
}

// ListenAndServe blocks serving HTTP requests until the server is closed.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Close shuts the HTTP server down.
func (s *Server) Close() error {
	return s.httpServer.Close()
}

func (s *Server) withAuth(authenticate func(ctx context.Context, bearerToken string) error, next http.Handler) http.Handler {
	if authenticate == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if err := authenticate(r.Context(), token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := s.logger.Sugar().With("requestID", requestID)

	path := strings.TrimPrefix(r.URL.Path, "/proof/")
	parts := strings.Split(path, "/")

	txHash, ok := parseTxID(parts[0])
	if !ok {
		writeError(w, http.StatusBadRequest, "malformed transaction id")
		return
	}

	var (
		blob proof.Blob
		err  error
	)

	switch len(parts) {
	case 1:
		blob, err = s.forTx(r.Context(), txHash)
	case 2:
		logIdx, convErr := strconv.Atoi(parts[1])
		if convErr != nil || logIdx < 0 {
			writeError(w, http.StatusBadRequest, "malformed log index")
			return
		}
		blob, err = s.forEvent(r.Context(), txHash, logIdx)
	default:
		writeError(w, http.StatusBadRequest, "malformed proof path")
		return
	}

	if err != nil {
		logger.Warnw("proof construction failed", "error", err)
		writeError(w, http.StatusNotFound, "proof not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"proof": hex.EncodeToString(blob)})
}

func (s *Server) forTx(ctx context.Context, txHash common.Hash) (proof.Blob, error) {
	key := proofcache.Key{TxHash: txHash, LogIndex: -1}
	if cached, ok, err := s.cacheGet(ctx, key); err == nil && ok {
		return cached, nil
	}

	blob, err := proof.ForTx(ctx, s.rpc, txHash)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, blob)
	return blob, nil
}

func (s *Server) forEvent(ctx context.Context, txHash common.Hash, logIdx int) (proof.Blob, error) {
	key := proofcache.Key{TxHash: txHash, LogIndex: logIdx}
	if cached, ok, err := s.cacheGet(ctx, key); err == nil && ok {
		return cached, nil
	}

	blob, err := proof.ForEvent(ctx, s.rpc, txHash, logIdx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, blob)
	return blob, nil
}

func (s *Server) cacheGet(ctx context.Context, key proofcache.Key) ([]byte, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	return s.cache.Get(ctx, key)
}

func (s *Server) cacheSet(ctx context.Context, key proofcache.Key, blob []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, blob); err != nil {
		s.logger.Sugar().Warnw("failed to populate proof cache", "error", err)
	}
}

func parseTxID(s string) (common.Hash, bool) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 64 {
		return common.Hash{}, false
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return common.Hash{}, false
	}
	return common.BytesToHash(raw), true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
