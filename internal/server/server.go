// Package server 用 HTTP 暴露与 `latekan run` 相同的生成流程（上传 EPG 表 → JSON 报告或 CSV）。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/John-Robertt/latekan/internal/app/run"
	"github.com/John-Robertt/latekan/internal/config"
	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/export"
	"github.com/John-Robertt/latekan/internal/log"
	"github.com/John-Robertt/latekan/internal/sheet"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server 持有服务端配置与默认请求（配置文件里的 lengths/marks/writer/positions 作为表单默认值）。
type Server struct {
	cfg       config.ServerConfig
	base      domain.Request
	reg       sheet.Registry
	validator *validator.Validate
}

// New 根据最终配置构造 Server。
func New(eff config.EffectiveConfig, reg sheet.Registry) *Server {
	return &Server{
		cfg:       eff.Server,
		base:      eff.Request(),
		reg:       reg,
		validator: validator.New(),
	}
}

// Handler 返回完整路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(log.Middleware())
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimitRPS > 0 {
			r.Use(rateLimit(s.cfg.RateLimitRPS))
		}
		r.Post("/ideas", s.handleIdeas)
	})
	return r
}

// ListenAndServe 监听 cfg.Addr，ctx 取消后优雅退出。
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	lg := log.WithComponent("server")
	go func() {
		lg.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	lg := log.WithComponent("server").With().Str("request_id", chimw.GetReqID(r.Context())).Logger()

	tooLarge := func() {
		writeError(w, http.StatusRequestEntityTooLarge, domain.ErrCodeInputTooLarge,
			fmt.Sprintf("ファイルが大きすぎます（上限 %d MB）", s.cfg.MaxUploadBytes>>20))
	}
	if r.ContentLength > s.cfg.MaxUploadBytes {
		tooLarge()
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			tooLarge()
			return
		}
		writeError(w, http.StatusBadRequest, "form_invalid", "multipart/form-data で送信してください")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := readIdeaForm(r)
	req, err := form.toRequest(s.validator, s.base)
	if err != nil {
		var fe *formError
		if errors.As(err, &fe) {
			writeError(w, fe.Status, fe.Code, fe.Msg)
			return
		}
		writeError(w, http.StatusBadRequest, "form_invalid", err.Error())
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInputMissing, "EPGファイルをアップロードしてください。")
		return
	}
	defer file.Close()

	rr := run.ExecuteSource(r.Context(), run.Source{Name: hdr.Filename, Body: file}, req, s.reg, nil)
	if rr.Status != domain.StatusOK {
		lg.Warn().Str("error_code", rr.ErrorCode).Str("source", rr.Source).Msg("generation failed")
		writeJSON(w, statusFor(rr.ErrorCode), rr)
		return
	}

	if form.Format == "csv" {
		b, err := export.Encode(rr.Rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, domain.ErrCodeWriteFailed, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+config.DefaultCSVName+`"`)
		w.Header().Set("X-Run-Id", rr.RunID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}
	writeJSON(w, http.StatusOK, rr)
}

// statusFor 把 error_code 映射为 HTTP 状态码。
func statusFor(code string) int {
	switch code {
	case domain.ErrCodeLengthsInvalid, domain.ErrCodeInputMissing:
		return http.StatusBadRequest
	case domain.ErrCodeInputUnsupported:
		return http.StatusUnsupportedMediaType
	case domain.ErrCodeReadFailed:
		return http.StatusUnprocessableEntity
	case domain.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func rateLimit(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(
		rps,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(1))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "リクエストが多すぎます。しばらくしてから再試行してください。")
		}),
	)
}

type errorBody struct {
	ErrorCode string `json:"error_code"`
	Error     string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{ErrorCode: code, Error: msg})
}
