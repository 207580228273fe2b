package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	gekko "github.com/gekko3d/gekko-outline"
)

// OutlineUniform mirrors the outline shader's uniform block (std140, 32 bytes).
type OutlineUniform struct {
	Color     [4]float32
	Thickness float32
	Enabled   int32
	_         [2]int32
}

const outlineUniformSize = 32

// OutlineUniformOf reads the outline uniforms of a material. Missing
// uniforms stay zero.
func OutlineUniformOf(m *gekko.MaterialAsset) OutlineUniform {
	var u OutlineUniform
	if v, ok := m.Uniform(gekko.OutlineColorProperty); ok && v.Kind == gekko.UniformColor {
		u.Color = v.Color
	}
	if v, ok := m.Uniform(gekko.OutlineThicknessProperty); ok && v.Kind == gekko.UniformFloat {
		u.Thickness = v.Float
	}
	if v, ok := m.Uniform(gekko.OutlineEnabledProperty); ok && v.Kind == gekko.UniformInt {
		u.Enabled = v.Int
	}
	return u
}

// PackOutlineUniform encodes u little-endian in std140 layout.
func PackOutlineUniform(u OutlineUniform) []byte {
	buf := make([]byte, outlineUniformSize)
	for i, c := range u.Color {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(u.Thickness))
	binary.LittleEndian.PutUint32(buf[20:], uint32(u.Enabled))
	return buf
}

// uniformBuffer is a GPU buffer holding one OutlineUniform.
type uniformBuffer interface {
	Write(contents []byte) error
	Release()
}

type bufferFactory func(label string, contents []byte) (uniformBuffer, error)

type syncedBuffer struct {
	buffer  uniformBuffer
	version uint
}

// OutlineUniforms keeps one uniform buffer per outline material instance.
type OutlineUniforms struct {
	create  bufferFactory
	buffers map[gekko.AssetId]*syncedBuffer
}

func newOutlineUniforms(create bufferFactory) *OutlineUniforms {
	return &OutlineUniforms{
		create:  create,
		buffers: make(map[gekko.AssetId]*syncedBuffer),
	}
}

// Buffer returns the uniform buffer of a material instance.
func (u *OutlineUniforms) Buffer(id gekko.AssetId) (*wgpu.Buffer, bool) {
	b, ok := u.buffers[id]
	if !ok {
		return nil, false
	}
	wb, ok := b.buffer.(*wgpuUniformBuffer)
	if !ok {
		return nil, false
	}
	return wb.buffer, true
}

func isOutlineInstance(assets *gekko.AssetServer, id gekko.AssetId, m *gekko.MaterialAsset) bool {
	if m.InstanceOf == "" {
		return false
	}
	_, shaderName, _ := assets.MaterialInfo(id)
	return strings.HasSuffix(shaderName, "/"+gekko.OutlineShaderName)
}

// Sync uploads every outline instance whose version changed and releases
// buffers of released materials.
func (u *OutlineUniforms) Sync(assets *gekko.AssetServer) error {
	live := make(map[gekko.AssetId]struct{})
	var syncErr error

	assets.EachMaterial(func(id gekko.AssetId, m *gekko.MaterialAsset) bool {
		if !isOutlineInstance(assets, id, m) {
			return true
		}
		live[id] = struct{}{}

		b, ok := u.buffers[id]
		if ok && b.version == m.Version {
			return true
		}

		contents := PackOutlineUniform(OutlineUniformOf(m))
		if !ok {
			buffer, err := u.create(fmt.Sprintf("outline %s", m.Name), contents)
			if err != nil {
				syncErr = fmt.Errorf("create outline uniform buffer for %s: %w", id, err)
				return false
			}
			u.buffers[id] = &syncedBuffer{buffer: buffer, version: m.Version}
			return true
		}

		if err := b.buffer.Write(contents); err != nil {
			syncErr = fmt.Errorf("write outline uniform buffer for %s: %w", id, err)
			return false
		}
		b.version = m.Version
		return true
	})
	if syncErr != nil {
		return syncErr
	}

	for id, b := range u.buffers {
		if _, ok := live[id]; !ok {
			b.buffer.Release()
			delete(u.buffers, id)
		}
	}
	return nil
}

func (u *OutlineUniforms) releaseAll() {
	for id, b := range u.buffers {
		b.buffer.Release()
		delete(u.buffers, id)
	}
}

type wgpuUniformBuffer struct {
	buffer *wgpu.Buffer
	queue  *wgpu.Queue
}

func (b *wgpuUniformBuffer) Write(contents []byte) error {
	return b.queue.WriteBuffer(b.buffer, 0, contents)
}

func (b *wgpuUniformBuffer) Release() {
	b.buffer.Release()
}

func wgpuBufferFactory(state *State) bufferFactory {
	return func(label string, contents []byte) (uniformBuffer, error) {
		buffer, err := state.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    label,
			Contents: contents,
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		return &wgpuUniformBuffer{buffer: buffer, queue: state.queue}, nil
	}
}

// OutlineUniformsModule uploads outline uniforms every PreRender.
// Module must be installed first.
type OutlineUniformsModule struct{}

func (OutlineUniformsModule) Install(app *gekko.App, cmd *gekko.Commands) {
	state, ok := gekko.Resource[State](app)
	if !ok {
		panic("gpu.OutlineUniformsModule requires gpu.Module to be installed first")
	}

	uniforms := newOutlineUniforms(wgpuBufferFactory(state))
	cmd.AddResources(uniforms)
	app.OnShutdown(uniforms.releaseAll)
	app.UseSystem(
		gekko.System(outlineUniformSyncSystem).
			InStage(gekko.PreRender).
			RunAlways(),
	)
}

func outlineUniformSyncSystem(assets *gekko.AssetServer, uniforms *OutlineUniforms, cmd *gekko.Commands) {
	if err := uniforms.Sync(assets); err != nil {
		cmd.Logger().Errorf("Outline uniform sync failed: %v", err)
	}
}
