package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
	"github.com/df07/go-wormhole-raytracer/pkg/geometry"
	"github.com/df07/go-wormhole-raytracer/pkg/integrator"
	"github.com/df07/go-wormhole-raytracer/pkg/material"
	"github.com/df07/go-wormhole-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectID     core.ObjectID          `json:"objectId,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"color": hexColor(mat.Color),
	}

	switch mat.Kind() {
	case material.KindWormhole:
		properties["offset"] = toArray(mat.Wormhole.Offset)
		properties["otherEnd"] = mat.Wormhole.OtherEnd
	case material.KindMetal:
		properties["roughness"] = mat.Roughness
	default:
		properties["metallic"] = mat.Metallic
		properties["roughness"] = mat.Roughness
	}
	if mat.EmissionIntensity > 0 {
		properties["emission"] = toArray(mat.Emission())
	}
	return mat.Kind().String(), properties
}

// inspectPixel casts the unjittered ray through pixel (x, y)
func inspectPixel(spheres []*geometry.Sphere, gen *renderer.RayGenerator, x, y int) InspectResponse {
	ray := gen.PixelRay(float64(x)+0.5, float64(y)+0.5)
	hit, ok := integrator.NearestHit(ray, spheres, core.NoObject)
	if !ok {
		return InspectResponse{Hit: false}
	}

	materialType, properties := extractMaterialInfo(hit.Sphere.Material)
	properties["radius"] = hit.Sphere.Radius
	properties["center"] = toArray(hit.Sphere.Center)
	return InspectResponse{
		Hit:          true,
		ObjectID:     hit.Sphere.ID,
		MaterialType: materialType,
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Sphere.NormalAt(hit.Point)),
		Distance:     hit.T,
		Properties:   properties,
	}
}

// handleInspect reports the sphere under pixel ?x=&y=
func (s *Server) handleInspect(c echo.Context) error {
	config := s.renderer.Config()
	x, err := parseIntParam(c.QueryParams(), "x", config.Width/2, 0, config.Width-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	y, err := parseIntParam(c.QueryParams(), "y", config.Height/2, 0, config.Height-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	gen := renderer.NewRayGenerator(s.renderer.Camera(), config.Width, config.Height)
	return c.JSON(http.StatusOK, inspectPixel(s.renderer.Scene().Spheres, gen, x, y))
}
