package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/geometry"
	"github.com/df07/go-raytracer/pkg/integrator"
	"github.com/df07/go-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the hit record and the object that produced it
type InspectResult struct {
	Hit       bool
	HitRecord geometry.HitRecord
	Object    geometry.Hittable
}

// inspectPixel casts a ray through the center of image pixel (pixelX, pixelY),
// where pixelY = 0 is the top row, and returns the nearest object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	// Scanline j counts up from the bottom of the image
	j := sceneObj.Height - 1 - pixelY
	u := (float64(pixelX) + 0.5) / float64(sceneObj.Width-1)
	v := (float64(j) + 0.5) / float64(sceneObj.Height-1)
	ray := sceneObj.Camera.GetRay(u, v)

	hit, object, isHit := sceneObj.World.HitObject(ray, integrator.DefaultTMin, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}
	return InspectResult{Hit: true, HitRecord: hit, Object: object}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func boundsProperty(box core.AABB) map[string][3]float64 {
	return map[string][3]float64{"min": vecArray(box.Min), "max": vecArray(box.Max)}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(object geometry.Hittable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if bounded, ok := object.(geometry.Bounded); ok {
		properties["bounds"] = boundsProperty(bounded.BoundingBox())
	}

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	case *geometry.Cube:
		properties["center"] = vecArray(geom.Center)
		properties["halfExtent"] = geom.HalfExtent
		orientation := geom.Orientation()
		properties["orientation"] = [3][3]float64(orientation)
		corners := geom.Corners()
		cornerList := make([][3]float64, len(corners))
		for i, corner := range corners {
			cornerList[i] = vecArray(corner)
		}
		properties["corners"] = cornerList
		return "cube", properties

	case *geometry.HittableList:
		properties["objects"] = geom.Len()
		return "group", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	_, sceneObj, err := s.parseSceneParams(values)
	if err != nil {
		writeSceneError(w, err)
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= sceneObj.Width || pixelY < 0 || pixelY >= sceneObj.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	s.metrics.inspectsTotal.WithLabelValues(strconv.FormatBool(result.Hit)).Inc()

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, properties := extractGeometryInfo(result.Object)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties:   properties,
	})
}
