// Package export ships a rendered report to an external sink.
package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/zstd"

	"github.com/AngelCh415/hotel-analytics/internal/config"
	"github.com/AngelCh415/hotel-analytics/internal/models"
	"github.com/AngelCh415/hotel-analytics/internal/utils"
)

var ErrSinkNotConfigured = errors.New("sink not configured")

type ReportSource interface {
	Report(ctx context.Context, sel models.RangeSelector) (models.Report, error)
}

type Result struct {
	Range    string `json:"range"`
	Samples  int    `json:"samples"`
	RawBytes int    `json:"raw_bytes"`
	Sent     int    `json:"sent_bytes"`
	Attempts int    `json:"attempts"`
}

type Exporter struct {
	c       HTTPClient
	src     ReportSource
	log     *slog.Logger
	cfg     config.ExportConfig
	backoff utils.Backoff
	enc     *zstd.Encoder

	// OnResult, if set, receives "ok" or "error" after every export.
	OnResult func(outcome string)
}

func NewExporter(c HTTPClient, src ReportSource, log *slog.Logger, cfg config.ExportConfig) (*Exporter, error) {
	e := &Exporter{
		c:       c,
		src:     src,
		log:     log,
		cfg:     cfg,
		backoff: utils.NewBackoff(cfg.BackoffBase, cfg.Retries),
	}
	if cfg.CompressionLevel > 0 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel(cfg.CompressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		e.enc = enc
	}
	return e, nil
}

func encoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// Export builds the report for sel and POSTs it to the sink. The
// X-Signature header is the hex HMAC-SHA256 of the uncompressed JSON.
func (e *Exporter) Export(ctx context.Context, sel models.RangeSelector) (Result, error) {
	res, err := e.export(ctx, sel)
	if e.OnResult != nil {
		if err != nil {
			e.OnResult("error")
		} else {
			e.OnResult("ok")
		}
	}
	return res, err
}

func (e *Exporter) export(ctx context.Context, sel models.RangeSelector) (Result, error) {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return Result{}, ErrSinkNotConfigured
	}
	report, err := e.src.Report(ctx, sel)
	if err != nil {
		return Result{}, fmt.Errorf("building report: %w", err)
	}
	b, err := json.Marshal(report)
	if err != nil {
		return Result{}, fmt.Errorf("encoding report: %w", err)
	}
	mac := hmac.New(sha256.New, []byte(e.cfg.SinkSecret))
	mac.Write(b)
	sig := hex.EncodeToString(mac.Sum(nil))

	body := b
	if e.enc != nil {
		body = e.enc.EncodeAll(b, make([]byte, 0, len(b)/4))
	}

	res := Result{
		Range:    sel.String(),
		Samples:  report.Bookings.Len() + report.Revenue.Len() + report.Occupancy.Len() + report.RoomTypes.Len() + len(report.Channels),
		RawBytes: len(b),
		Sent:     len(body),
	}
	err = e.backoff.Do(ctx, func(i int) error {
		res.Attempts = i + 1
		return e.post(ctx, body, sig)
	})
	if err != nil {
		e.log.Error("export failed", slog.String("range", res.Range), slog.Int("attempts", res.Attempts), slog.String("err", err.Error()))
		return res, err
	}
	e.log.Info("export complete", slog.String("range", res.Range), slog.Int("bytes", res.Sent), slog.Int("attempts", res.Attempts))
	return res, nil
}

func (e *Exporter) post(ctx context.Context, body []byte, sig string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(body))
	if err != nil {
		return utils.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sig)
	if e.enc != nil {
		req.Header.Set("Content-Encoding", "zstd")
	}
	resp, err := e.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err = fmt.Errorf("sink non-2xx: %d body=%s", resp.StatusCode, bytes.TrimSpace(msg))
	// 4xx no se reintenta
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return utils.Permanent(err)
	}
	return err
}
