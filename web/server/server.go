package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-raytracer/pkg/loaders"
	"github.com/df07/go-raytracer/pkg/publish"
	"github.com/df07/go-raytracer/pkg/renderer"
	"github.com/df07/go-raytracer/pkg/scene"
)

// Config holds the server settings
type Config struct {
	Port      int
	ScenesDir string
	// Publisher uploads renders requested with publish=true; nil disables it
	Publisher *publish.Publisher
}

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	publisher *publish.Publisher
	metrics   *Metrics
}

// NewServer creates a new web server
func NewServer(config Config) *Server {
	return &Server{
		port:      config.Port,
		scenesDir: config.ScenesDir,
		publisher: config.Publisher,
		metrics:   NewMetrics(),
	}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	glog.Infof("Starting web server on http://localhost%s", srv.Addr)
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		glog.Errorf("Failed to list scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = scene.DefaultSceneID
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeSceneError(w, err)
		return
	}

	response := map[string]interface{}{
		"scene":      sceneName,
		"primitives": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":           sceneObj.Width,
			"height":          sceneObj.Height,
			"aspectRatio":     sceneObj.AspectRatio,
			"samplesPerPixel": sceneObj.SamplingConfig.SamplesPerPixel,
			"maxDepth":        sceneObj.SamplingConfig.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":       map[string]int{"min": minWidth, "max": maxWidth},
			"aspectRatio": map[string]float64{"min": minAspect, "max": maxAspect},
			"samples":     map[string]int{"min": 1, "max": maxSamples},
			"maxDepth":    map[string]int{"min": 1, "max": maxDepth},
		},
	}
	if box, ok := sceneObj.World.BoundingBox(); ok {
		response["bounds"] = boundsProperty(box)
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a built-in scene ID or a "file:<name>" scene from the
// scenes directory. Raw file paths are not accepted over HTTP.
func (s *Server) createScene(name string) (*scene.Scene, error) {
	if strings.HasPrefix(name, scene.FileScenePrefix) {
		return loaders.CreateScene(name, s.scenesDir)
	}
	return scene.NewBuiltin(name)
}

// Request limits
const (
	minWidth   = 2
	maxWidth   = 2000
	minAspect  = 0.1
	maxAspect  = 10.0
	maxSamples = 10000
	maxDepth   = 500
)

// SceneParams are the parameters shared by render and inspect requests
type SceneParams struct {
	Scene           string  `json:"scene"`
	Width           int     `json:"width"`
	AspectRatio     float64 `json:"aspectRatio"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
}

// parseSceneParams parses the scene and image size; sampling defaults to
// the scene's own configuration
func (s *Server) parseSceneParams(values url.Values) (SceneParams, *scene.Scene, error) {
	params := SceneParams{Scene: values.Get("scene")}
	if params.Scene == "" {
		params.Scene = scene.DefaultSceneID
	}

	sceneObj, err := s.createScene(params.Scene)
	if err != nil {
		return params, nil, err
	}

	if params.Width, err = parseIntParam(values, "width", sceneObj.Width, minWidth, maxWidth); err != nil {
		return params, nil, err
	}
	if params.AspectRatio, err = parseFloatParam(values, "aspectRatio", sceneObj.AspectRatio, minAspect, maxAspect); err != nil {
		return params, nil, err
	}
	if params.SamplesPerPixel, err = parseIntParam(values, "samples", sceneObj.SamplingConfig.SamplesPerPixel, 1, maxSamples); err != nil {
		return params, nil, err
	}
	if params.MaxDepth, err = parseIntParam(values, "maxDepth", sceneObj.SamplingConfig.MaxDepth, 1, maxDepth); err != nil {
		return params, nil, err
	}

	sceneObj.SetImageSize(params.Width, params.AspectRatio)
	if sceneObj.Height < 2 {
		return params, nil, fmt.Errorf("image height %d must be at least 2", sceneObj.Height)
	}
	sceneObj.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: params.SamplesPerPixel,
		MaxDepth:        params.MaxDepth,
	}
	return params, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		glog.Warningf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSceneError maps scene and parameter failures to a status code
func writeSceneError(w http.ResponseWriter, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
