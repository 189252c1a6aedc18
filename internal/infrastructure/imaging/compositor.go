package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	// registered decoders
	_ "image/gif"
	_ "image/jpeg"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
)

const (
	maxSourceBytes  = 20 << 20
	// maxSourcePixels caps decoded width*height; a small file can declare
	// dimensions that would need gigabytes once decoded.
	maxSourcePixels = 40_000_000
	maxOverlaySize  = 4096
	outputFolder    = "composites"
)

// LocalOpener reads files stored by the local backend.
type LocalOpener interface {
	Open(filename string) (io.ReadCloser, error)
}

// Compositor merges a design onto a product image and stores the PNG.
type Compositor struct {
	storage      ports.FileStorage
	local        LocalOpener
	localPaths   []string
	allowedHosts []string
	maxPixels    int
	http         *http.Client
	logger       zerolog.Logger
}

// NewCompositor creates a compositor. local may be nil; when set, sources
// whose URL contains one of localPaths are read from disk instead of fetched.
// Remote sources are fetched only from allowedHosts. An entry matches the
// URL host with or without port; a leading dot matches any subdomain.
func NewCompositor(storage ports.FileStorage, local LocalOpener, localPaths, allowedHosts []string, logger zerolog.Logger) *Compositor {
	c := &Compositor{
		storage:      storage,
		local:        local,
		localPaths:   localPaths,
		allowedHosts: normalizeHosts(allowedHosts),
		maxPixels:    maxSourcePixels,
		logger:       logger.With().Str("component", "compositor").Logger(),
	}
	c.http = &http.Client{
		Timeout: 20 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			if !c.hostAllowed(req.URL) {
				return domain.Invalid("Image host %q is not allowed", req.URL.Host)
			}
			return nil
		},
	}
	return c
}

// HostOf returns the host[:port] of rawURL, or "" when it has none.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

func (c *Compositor) hostAllowed(u *url.URL) bool {
	host := strings.ToLower(u.Host)
	name := strings.ToLower(u.Hostname())
	for _, h := range c.allowedHosts {
		if h == host || h == name {
			return true
		}
		if strings.HasPrefix(h, ".") && strings.HasSuffix(name, h) {
			return true
		}
	}
	return false
}

// Composite loads both images, composes them and stores the result
func (c *Compositor) Composite(ctx context.Context, req ports.CompositeRequest) (string, error) {
	if req.Size <= 0 || req.Size > maxOverlaySize {
		return "", domain.Invalid("Overlay size must be between 1 and %d", maxOverlaySize)
	}

	base, err := c.load(ctx, req.BaseImage)
	if err != nil {
		return "", fmt.Errorf("failed to load base image: %w", err)
	}
	overlay, err := c.load(ctx, req.OverlayImage)
	if err != nil {
		return "", fmt.Errorf("failed to load overlay image: %w", err)
	}

	out := Compose(base, overlay, req.Position, req.Size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", fmt.Errorf("failed to encode composite: %w", err)
	}

	name := req.OutputName
	if name == "" {
		name = "composite-" + uuid.NewString()
	}
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}

	stored, err := c.storage.Save(ctx, outputFolder, name, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to store composite: %w", err)
	}

	c.logger.Debug().Str("url", stored.URL).Int("size", req.Size).Msg("Composite created")
	return stored.URL, nil
}

// Compose draws overlay, fitted into a size x size box with transparent
// padding, centered at pos (percent of base dimensions) on top of base.
func Compose(base, overlay image.Image, pos domain.Position, size int) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)

	box := FitOverlay(overlay, size)

	cx := int(math.Round(clampPercent(pos.X) / 100 * float64(b.Dx())))
	cy := int(math.Round(clampPercent(pos.Y) / 100 * float64(b.Dy())))
	topLeft := image.Pt(cx-size/2, cy-size/2)

	dst := image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(size, size))}
	draw.Draw(out, dst, box, image.Point{}, draw.Over)
	return out
}

// FitOverlay resizes img to fit inside size x size, keeping its aspect
// ratio, and centers it on a transparent square canvas.
func FitOverlay(img image.Image, size int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))

	ob := img.Bounds()
	if ob.Dx() == 0 || ob.Dy() == 0 {
		return canvas
	}
	scale := math.Min(float64(size)/float64(ob.Dx()), float64(size)/float64(ob.Dy()))
	w := uint(math.Max(1, math.Round(float64(ob.Dx())*scale)))
	h := uint(math.Max(1, math.Round(float64(ob.Dy())*scale)))

	resized := resize.Resize(w, h, img, resize.Lanczos3)
	offset := image.Pt((size-int(w))/2, (size-int(h))/2)
	draw.Draw(canvas, resized.Bounds().Sub(resized.Bounds().Min).Add(offset), resized, resized.Bounds().Min, draw.Over)
	return canvas
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func (c *Compositor) load(ctx context.Context, src string) (image.Image, error) {
	rc, err := c.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	if len(data) > maxSourceBytes {
		return nil, domain.Invalid("Image %s exceeds %d bytes", src, maxSourceBytes)
	}

	// header only, so oversized dimensions are refused before allocation
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(c.maxPixels) {
		return nil, domain.Invalid("Image %s is %dx%d, above the %d pixel limit", src, cfg.Width, cfg.Height, c.maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	return img, nil
}

func (c *Compositor) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if src == "" {
		return nil, domain.Invalid("Image source is empty")
	}
	if c.local != nil {
		for _, p := range c.localPaths {
			if i := strings.Index(src, p); i >= 0 {
				return c.local.Open(src[i+len(p):])
			}
		}
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.Invalid("Unsupported image source %q", src)
	}
	if !c.hostAllowed(u) {
		c.logger.Warn().Str("host", u.Host).Msg("Refused image from unlisted host")
		return nil, domain.Invalid("Image host %q is not allowed", u.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", src, resp.StatusCode)
	}
	return resp.Body, nil
}

var _ ports.ImageCompositor = (*Compositor)(nil)
