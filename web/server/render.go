package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/df07/go-raytracer/pkg/config"
	"github.com/df07/go-raytracer/pkg/publish"
	"github.com/df07/go-raytracer/pkg/renderer"
	"github.com/df07/go-raytracer/pkg/scene"
)

// Response formats for /api/render
const (
	formatPNG  = "png"
	formatPPM  = "ppm"
	formatJSON = "json"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneParams
	Seed      int64  `json:"seed"`
	Format    string `json:"format"`    // png, ppm or json
	Thumbnail uint   `json:"thumbnail"` // Thumbnail width, 0 for none
	Publish   bool   `json:"publish"`   // Upload the image to S3
}

// RenderResponse is the body of a format=json render
type RenderResponse struct {
	ImageData    string           `json:"imageData"`           // Base64 encoded PNG
	Thumbnail    string           `json:"thumbnail,omitempty"` // Base64 encoded PNG
	Stats        Stats            `json:"stats"`
	Console      []ConsoleMessage `json:"console"`
	PublishedKey string           `json:"publishedKey,omitempty"`
}

// Stats represents render statistics
type Stats struct {
	Width           int   `json:"width"`
	Height          int   `json:"height"`
	TotalPixels     int   `json:"totalPixels"`
	TotalSamples    int64 `json:"totalSamples"`
	SamplesPerPixel int   `json:"samplesPerPixel"`
	MaxDepth        int   `json:"maxDepth"`
	ElapsedMs       int64 `json:"elapsedMs"`
}

var renderCounter atomic.Int64

// handleRender renders a scene synchronously and returns the image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeSceneError(w, err)
		return
	}
	if req.Publish && s.publisher == nil {
		writeError(w, http.StatusBadRequest, "publishing is not configured")
		return
	}

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, sceneObj.Height+1)
	logger := NewRequestLogger(renderID, consoleChan)

	rt := renderer.NewRaytracer(sceneObj, sceneObj.Width, sceneObj.Height)
	rt.SetSamplingConfig(sceneObj.SamplingConfig)
	rt.SetRandom(rand.New(rand.NewSource(req.Seed)))
	rt.SetLogger(logger)

	fb, stats, err := rt.Render(r.Context())
	if err != nil {
		s.metrics.rendersTotal.WithLabelValues(sceneObj.Name, "error").Inc()
		glog.Warningf("[%s] render failed: %v", renderID, err)
		writeError(w, http.StatusServiceUnavailable, "render failed: "+err.Error())
		return
	}
	s.metrics.rendersTotal.WithLabelValues(sceneObj.Name, "ok").Inc()
	s.metrics.renderDuration.WithLabelValues(sceneObj.Name).Observe(stats.Elapsed.Seconds())
	s.metrics.samplesTotal.Add(float64(stats.TotalSamples))
	glog.Infof("[%s] scene %s: %s", renderID, sceneObj.Name, stats)

	var body bytes.Buffer
	contentType := publish.ContentTypePNG
	if req.Format == formatPPM {
		contentType = publish.ContentTypePPM
		err = renderer.WritePPM(&body, fb)
	} else {
		err = renderer.WritePNG(&body, fb)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var publishedKey string
	if req.Publish {
		ext := config.FormatPNG
		if req.Format == formatPPM {
			ext = config.FormatPPM
		}
		name := fmt.Sprintf("%s-%s.%s", sceneObj.Name, renderID, ext)
		if publishedKey, err = s.publisher.Publish(r.Context(), name, body.Bytes(), contentType); err != nil {
			glog.Errorf("[%s] %v", renderID, err)
			writeError(w, http.StatusBadGateway, "publish failed")
			return
		}
	}

	if req.Format != formatJSON {
		if req.Thumbnail > 0 {
			body.Reset()
			if err := png.Encode(&body, renderer.Thumbnail(fb.Image(), req.Thumbnail)); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			contentType = publish.ContentTypePNG
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.Header().Set("X-Render-Id", renderID)
		if publishedKey != "" {
			w.Header().Set("X-Published-Key", publishedKey)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body.Bytes()); err != nil {
			glog.Warningf("[%s] failed to write %s image: %v", renderID, humanize.Bytes(uint64(body.Len())), err)
		}
		return
	}

	response := RenderResponse{
		ImageData: base64.StdEncoding.EncodeToString(body.Bytes()),
		Stats: Stats{
			Width:           stats.Width,
			Height:          stats.Height,
			TotalPixels:     stats.TotalPixels,
			TotalSamples:    int64(stats.TotalSamples),
			SamplesPerPixel: stats.SamplesPerPixel,
			MaxDepth:        stats.MaxDepth,
			ElapsedMs:       stats.Elapsed.Milliseconds(),
		},
		Console:      drainConsole(consoleChan),
		PublishedKey: publishedKey,
	}
	if req.Thumbnail > 0 {
		if response.Thumbnail, err = imageToBase64PNG(renderer.Thumbnail(fb.Image(), req.Thumbnail)); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	values := r.URL.Query()
	params, sceneObj, err := s.parseSceneParams(values)
	if err != nil {
		return nil, nil, err
	}

	req := &RenderRequest{SceneParams: params}

	seed, err := parseIntParam(values, "seed", int(time.Now().UnixNano()&0x7fffffff), 0, 1<<31-1)
	if err != nil {
		return nil, nil, err
	}
	req.Seed = int64(seed)

	thumbnail, err := parseIntParam(values, "thumbnail", 0, 0, params.Width)
	if err != nil {
		return nil, nil, err
	}
	req.Thumbnail = uint(thumbnail)

	req.Format = values.Get("format")
	switch req.Format {
	case "":
		req.Format = formatPNG
	case formatPNG, formatPPM, formatJSON:
	default:
		return nil, nil, fmt.Errorf("unknown format %q", req.Format)
	}
	if req.Format == formatPPM && req.Thumbnail > 0 {
		return nil, nil, fmt.Errorf("thumbnails are always PNG; drop format=ppm")
	}

	if p := values.Get("publish"); p != "" {
		if req.Publish, err = strconv.ParseBool(p); err != nil {
			return nil, nil, fmt.Errorf("invalid publish: %s", p)
		}
	}

	return req, sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
