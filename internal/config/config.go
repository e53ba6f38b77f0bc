// Package config loads the YAML scene description: camera, objects,
// lights, and effect toggles.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Fidelxyz/cpu-renderer/internal/rerr"
)

// DefaultPath is used when the CLI is invoked with no config argument.
const DefaultPath = "config.yaml"

// Config is the root of the scene configuration file.
type Config struct {
	ThreadsNum      int        `yaml:"threads-num"`
	BackgroundColor [3]float32 `yaml:"background-color"`

	EnableRimlight bool    `yaml:"enable-rimlight"`
	EnableBloom    bool    `yaml:"enable-bloom"`
	BloomStrength  float32 `yaml:"bloom-strength"`
	BloomRadius    float32 `yaml:"bloom-radius"`
	BloomIteration int     `yaml:"bloom-iteration"`

	EnablePBR bool `yaml:"enable-pbr"`

	// OutlineWidth and OutlineColor parameterize the cel shader's outline
	// pass (silhouette thickness is artistic and distance-dependent, so
	// it is exposed here rather than hardcoded).
	OutlineWidth float32    `yaml:"outline-width"`
	OutlineColor [3]float32 `yaml:"outline-color"`

	Camera  Camera   `yaml:"camera"`
	Lights  []Light  `yaml:"lights"`
	Objects []Object `yaml:"objects"`
}

type Camera struct {
	Pos                    [3]float64 `yaml:"pos"`
	LookDir                [3]float64 `yaml:"look-dir"`
	UpDir                  [3]float64 `yaml:"up-dir"`
	FovDeg                 float64    `yaml:"fov"`
	NearPlane              float64    `yaml:"near-plane"`
	FarPlane               float64    `yaml:"far-plane"`
	Width                  int        `yaml:"width"`
	Height                 int        `yaml:"height"`
	RelaxViewCullingFactor float64    `yaml:"relax-view-culling-factor"`
}

type Light struct {
	Pos       [3]float32 `yaml:"pos"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

type Object struct {
	Path        string   `yaml:"path"`
	BasePath    string   `yaml:"basepath"`
	Pos         [3]float32 `yaml:"pos"`
	Rotation    [3]float32 `yaml:"rotation"`
	Scale       [3]float32 `yaml:"scale"`
	ShadingType string   `yaml:"shading-type"` // default, cel, pbr

	Material *Material `yaml:"material"`
}

// Material overrides fields of every material loaded for an object's
// mesh. Sheen is accepted (it appears in scenes authored against the
// source renderer's config format) but unused: none of the three
// fragment shading models read it.
type Material struct {
	Ambient   *[3]float32 `yaml:"ambient"`
	Diffuse   *[3]float32 `yaml:"diffuse"`
	Specular  *[3]float32 `yaml:"specular"`
	Shininess *float32    `yaml:"shininess"`
	IOR       *float32    `yaml:"ior"`
	Roughness *float32    `yaml:"roughness"`
	Metallic  *float32    `yaml:"metallic"`
	Sheen     *float32    `yaml:"sheen"`

	// CelRampVariant selects the cel shader's single-step flat-face ramp
	// for this material instead of its default multi-band ramp.
	CelRampVariant *bool `yaml:"cel-ramp-variant"`

	AmbientTexname  string `yaml:"ambient-texname"`
	DiffuseTexname  string `yaml:"diffuse-texname"`
	SpecularTexname string `yaml:"specular-texname"`
	AlphaTexname    string `yaml:"alpha-texname"`
	NormalTexname   string `yaml:"normal-texname"`
}

// Load reads and validates a scene configuration file. Keys the file
// omits keep their defaults: outline-width 0.001, bloom-strength 0.6,
// bloom-radius 1, and zero values (background-color [0,0,0]) for the rest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rerr.ConfigParseError{Path: path, Err: err}
	}

	cfg := Config{
		OutlineWidth: 0.001,
		BloomStrength: 0.6,
		BloomRadius:   1,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &rerr.ConfigParseError{Path: path, Err: err}
	}

	if err := cfg.validate(); err != nil {
		return nil, &rerr.ConfigParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera width and height must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.FovDeg <= 0 || c.Camera.FovDeg >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180) degrees, got %v", c.Camera.FovDeg)
	}
	if c.Camera.NearPlane <= 0 || c.Camera.FarPlane <= c.Camera.NearPlane {
		return fmt.Errorf("camera near-plane/far-plane must satisfy 0 < near < far, got near=%v far=%v", c.Camera.NearPlane, c.Camera.FarPlane)
	}
	for i, obj := range c.Objects {
		if obj.Path == "" {
			return fmt.Errorf("objects[%d]: path is required", i)
		}
	}
	return nil
}
