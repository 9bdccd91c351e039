package voxel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime tunables of the chunk renderer. It is read on the render thread only.
type Config struct {
	OcclusionQuery     bool `json:"occlusion_query" yaml:"occlusion_query"`
	OcclusionThreshold int  `json:"occlusion_threshold" yaml:"occlusion_threshold"`
	RenderOccluded     bool `json:"render_occluded" yaml:"render_occluded"`
	RenderAABB         bool `json:"render_aabb" yaml:"render_aabb"`
	SortCandidates     bool `json:"sort_candidates" yaml:"sort_candidates"`

	ViewDistance          int `json:"view_distance" yaml:"view_distance"`
	MeshSize              int `json:"mesh_size" yaml:"mesh_size"`
	PoolCapacity          int `json:"pool_capacity" yaml:"pool_capacity"`
	MaxAdmissionsPerFrame int `json:"max_admissions_per_frame" yaml:"max_admissions_per_frame"`

	OctreeMaxDepth     int        `json:"octree_max_depth" yaml:"octree_max_depth"`
	OctreeNodeCapacity int        `json:"octree_node_capacity" yaml:"octree_node_capacity"`
	WorldMin           [3]float32 `json:"world_min" yaml:"world_min"`
	WorldMax           [3]float32 `json:"world_max" yaml:"world_max"`

	PlantSeed    int64    `json:"plant_seed" yaml:"plant_seed"`
	PlantDensity float64  `json:"plant_density" yaml:"plant_density"`
	PlantMeshes  []string `json:"plant_meshes" yaml:"plant_meshes"`
}

func DefaultConfig() *Config {
	return &Config{
		OcclusionQuery:        false,
		OcclusionThreshold:    20,
		ViewDistance:          MinCullingDistance,
		MeshSize:              DefaultMeshSize,
		PoolCapacity:          2048,
		MaxAdmissionsPerFrame: 1,
		OctreeMaxDepth:        30,
		OctreeNodeCapacity:    16,
		WorldMin:              [3]float32{-65536, 0, -65536},
		WorldMax:              [3]float32{65536, MaxHeight, 65536},
		PlantSeed:             1337,
		PlantDensity:          0.25,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads a JSON or YAML config file on top of the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogSystemInfo("[Config] %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parse config %s", path)
	}
	if err = cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

func (c *Config) Validate() error {
	switch {
	case c.PoolCapacity <= 0:
		return errors.Errorf("pool_capacity must be positive, got %d", c.PoolCapacity)
	case c.MeshSize <= 0:
		return errors.Errorf("mesh_size must be positive, got %d", c.MeshSize)
	case c.ViewDistance < 0:
		return errors.Errorf("view_distance must not be negative, got %d", c.ViewDistance)
	case c.MaxAdmissionsPerFrame <= 0:
		return errors.Errorf("max_admissions_per_frame must be positive, got %d", c.MaxAdmissionsPerFrame)
	case c.OctreeNodeCapacity <= 0:
		return errors.Errorf("octree_node_capacity must be positive, got %d", c.OctreeNodeCapacity)
	case c.PlantDensity < 0 || c.PlantDensity > 1:
		return errors.Errorf("plant_density must be within [0,1], got %f", c.PlantDensity)
	}
	return nil
}

func (c *Config) WorldBounds() util.AABB {
	return util.NewAABBFromMinMax(mgl32.Vec3(c.WorldMin), mgl32.Vec3(c.WorldMax))
}

// EvictionDistanceSquared is the planar distance² at and beyond which chunks are released.
func (c *Config) EvictionDistanceSquared() int64 {
	d := int64(c.ViewDistance + c.MeshSize)
	return d * d
}

func (c *Config) SetViewDistance(distance int) {
	if distance < 0 {
		distance = 0
	}
	c.ViewDistance = distance
}

func (c *Config) SetOcclusionQuery(enabled bool) { c.OcclusionQuery = enabled }
func (c *Config) SetRenderOccluded(enabled bool) { c.RenderOccluded = enabled }
func (c *Config) SetRenderAABB(enabled bool)     { c.RenderAABB = enabled }
