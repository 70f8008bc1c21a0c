package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

const (
	smallThreshold  = 4 * 1024    // 4KB
	mediumThreshold = 1024 * 1024 // 1MB
	maxPooledPerClass = 64
)

// transferUsage is the usage every pooled buffer carries: storage plus
// both copy directions, so any pooled buffer can serve as a transfer
// source or destination.
const transferUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// BufferPool recycles GPU buffers to reduce allocation overhead.
// Buffers are grouped in three size classes; Get returns the first
// buffer at least as large as requested.
type BufferPool struct {
	device *wgpu.Device

	mu      sync.Mutex
	classes [3][]*pooledBuffer

	hits   uint64
	misses uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// Get returns a pooled or freshly created buffer of at least size bytes
// with transfer usage. Recycled buffers keep their previous contents.
func (p *BufferPool) Get(size uint64) *wgpu.Buffer {
	p.mu.Lock()
	class := sizeClass(size)
	pool := p.classes[class]
	for i, pb := range pool {
		if pb.size >= size {
			buffer := pb.buffer
			p.classes[class] = append(pool[:i], pool[i+1:]...)
			p.hits++
			p.mu.Unlock()
			return buffer
		}
	}
	p.misses++
	p.mu.Unlock()

	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: transferUsage,
		Size:  size,
	})
}

// Put returns a buffer to the pool for reuse. Full classes release the
// buffer immediately.
func (p *BufferPool) Put(buffer *wgpu.Buffer, size uint64) {
	p.mu.Lock()
	class := sizeClass(size)
	if len(p.classes[class]) >= maxPooledPerClass {
		p.mu.Unlock()
		buffer.Release()
		return
	}
	p.classes[class] = append(p.classes[class], &pooledBuffer{buffer: buffer, size: size})
	p.mu.Unlock()
}

// Clear releases all pooled buffers.
// Should be called when the backend is released.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for class := range p.classes {
		for _, pb := range p.classes[class] {
			pb.buffer.Release()
		}
		p.classes[class] = nil
	}
}

// Stats returns pool hit/miss counts and the number of pooled buffers.
func (p *BufferPool) Stats() (hits, misses uint64, pooled int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for class := range p.classes {
		pooled += len(p.classes[class])
	}
	return p.hits, p.misses, pooled
}

func sizeClass(size uint64) int {
	switch {
	case size < smallThreshold:
		return 0
	case size < mediumThreshold:
		return 1
	default:
		return 2
	}
}
