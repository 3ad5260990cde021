package server

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"shieldmark/internal/fallback"
	"shieldmark/internal/scene"
)

// Limits for the size query parameter, in pixels.
const (
	MinSize = 16
	MaxSize = 1024
)

// markRequest is a parsed emblem query.
type markRequest struct {
	size int
	mark fallback.Mark
}

// parseMark reads size, color and accent. color overrides the foreground
// like the embedded emblem's Color option; accent is only settable here.
func (s *Server) parseMark(r *http.Request) (markRequest, error) {
	q := r.URL.Query()
	req := markRequest{size: int(math.Round(s.opts.Size))}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("size: %w", err)
		}
		if n < MinSize || n > MaxSize {
			return req, fmt.Errorf("size must be between %d and %d", MinSize, MaxSize)
		}
		req.size = n
	}

	override := s.opts.Color
	if v := q.Get("color"); v != "" {
		if _, err := scene.ParseColor(v); err != nil {
			return req, fmt.Errorf("color: %w", err)
		}
		override = v
	}
	theme := scene.ResolveTheme(override, s.theme)
	if v := q.Get("accent"); v != "" {
		c, err := scene.ParseColor(v)
		if err != nil {
			return req, fmt.Errorf("accent: %w", err)
		}
		theme.Accent = c
	}
	req.mark = fallback.New(theme.Foreground, theme.Accent)
	return req, nil
}

// SVGHandler writes the static mark as SVG.
func (s *Server) SVGHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseMark(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := req.mark.WriteSVG(&buf, req.size); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(buf.Bytes())
}

// PNGHandler writes the rasterized static mark.
func (s *Server) PNGHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseMark(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, req.mark.Rasterize(req.size)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("render failed", zap.String("requestId", RequestID(r.Context())), zap.Error(err))
	http.Error(w, "render failed", http.StatusInternalServerError)
}
