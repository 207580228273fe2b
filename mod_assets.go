package gekko

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

var ErrAssetNotFound = errors.New("asset not found")

// UniformKind selects which shader setter a uniform value goes through.
type UniformKind int

const (
	UniformColor UniformKind = iota
	UniformFloat
	UniformInt
)

func (k UniformKind) String() string {
	switch k {
	case UniformColor:
		return "color"
	case UniformFloat:
		return "float"
	case UniformInt:
		return "int"
	}
	return fmt.Sprintf("UniformKind(%d)", int(k))
}

// UniformValue is a tagged shader uniform. Only the field matching Kind is meaningful.
type UniformValue struct {
	Kind  UniformKind
	Color mgl32.Vec4
	Float float32
	Int   int32
}

type ShaderAsset struct {
	Name   string
	Source string
}

type MaterialAsset struct {
	Name   string
	Shader AssetId
	// InstanceOf is the material this one was cloned from, empty for originals.
	InstanceOf AssetId
	// Version increases on every uniform write.
	Version  uint
	uniforms map[string]UniformValue
}

func (m *MaterialAsset) Uniform(property string) (UniformValue, bool) {
	v, ok := m.uniforms[property]
	return v, ok
}

type MeshAsset struct {
	Name string
}

type AssetServer struct {
	shaders   map[AssetId]ShaderAsset
	materials map[AssetId]*MaterialAsset
	meshes    map[AssetId]MeshAsset
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		shaders:   make(map[AssetId]ShaderAsset),
		materials: make(map[AssetId]*MaterialAsset),
		meshes:    make(map[AssetId]MeshAsset),
	}
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

func (server *AssetServer) CreateShader(name string, source string) AssetId {
	id := makeAssetId()
	server.shaders[id] = ShaderAsset{Name: name, Source: source}
	return id
}

func (server *AssetServer) CreateMesh(name string) AssetId {
	id := makeAssetId()
	server.meshes[id] = MeshAsset{Name: name}
	return id
}

func (server *AssetServer) CreateMaterial(name string, shader AssetId) AssetId {
	id := makeAssetId()
	server.materials[id] = &MaterialAsset{
		Name:     name,
		Shader:   shader,
		uniforms: make(map[string]UniformValue),
	}
	return id
}

func (server *AssetServer) Material(id AssetId) (*MaterialAsset, bool) {
	m, ok := server.materials[id]
	return m, ok
}

func (server *AssetServer) HasMaterial(id AssetId) bool {
	_, ok := server.materials[id]
	return ok
}

// MaterialInfo returns the material's name and the name of its shader.
// The shader name is empty when the shader is unknown.
func (server *AssetServer) MaterialInfo(id AssetId) (name string, shaderName string, ok bool) {
	m, ok := server.materials[id]
	if !ok {
		return "", "", false
	}
	return m.Name, server.shaders[m.Shader].Name, true
}

// CloneMaterial creates an independent copy of a material, uniforms included.
func (server *AssetServer) CloneMaterial(id AssetId, name string) (AssetId, error) {
	src, ok := server.materials[id]
	if !ok {
		return "", fmt.Errorf("clone material %q: %w", id, ErrAssetNotFound)
	}

	cloneId := makeAssetId()
	server.materials[cloneId] = &MaterialAsset{
		Name:       name,
		Shader:     src.Shader,
		InstanceOf: id,
		uniforms:   maps.Clone(src.uniforms),
	}
	return cloneId, nil
}

func (server *AssetServer) ReleaseMaterial(id AssetId) {
	delete(server.materials, id)
}

func (server *AssetServer) SetColor(id AssetId, property string, value mgl32.Vec4) {
	server.setUniform(id, property, UniformValue{Kind: UniformColor, Color: value})
}

func (server *AssetServer) SetFloat(id AssetId, property string, value float32) {
	server.setUniform(id, property, UniformValue{Kind: UniformFloat, Float: value})
}

func (server *AssetServer) SetInt(id AssetId, property string, value int32) {
	server.setUniform(id, property, UniformValue{Kind: UniformInt, Int: value})
}

// Writes to released or unknown materials are dropped.
func (server *AssetServer) setUniform(id AssetId, property string, value UniformValue) {
	m, ok := server.materials[id]
	if !ok {
		return
	}
	m.uniforms[property] = value
	m.Version++
}

func (server *AssetServer) Uniform(id AssetId, property string) (UniformValue, bool) {
	m, ok := server.materials[id]
	if !ok {
		return UniformValue{}, false
	}
	return m.Uniform(property)
}

// EachMaterial visits materials in a stable order until f returns false.
func (server *AssetServer) EachMaterial(f func(id AssetId, m *MaterialAsset) bool) {
	for _, id := range slices.Sorted(maps.Keys(server.materials)) {
		if !f(id, server.materials[id]) {
			return
		}
	}
}
