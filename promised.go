package h2session

import "sync"

// PromisedResources is a bidirectional index between a reserved (pushed)
// stream id and the request path it promises to satisfy, letting the
// dispatcher both reject a client SendRequest that duplicates an outstanding
// promise and resolve an inbound PUSH_PROMISE back to its stream.
type PromisedResources struct {
	mu         sync.Mutex
	byPath     map[string]uint32
	byStreamID map[uint32]string
}

func newPromisedResources() *PromisedResources {
	return &PromisedResources{
		byPath:     make(map[string]uint32),
		byStreamID: make(map[uint32]string),
	}
}

// Insert records that streamID promises to deliver path.
func (p *PromisedResources) Insert(streamID uint32, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byPath[path] = streamID
	p.byStreamID[streamID] = path
}

// Remove drops a promise, called once the promised stream closes or is
// rejected.
func (p *PromisedResources) Remove(streamID uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path, ok := p.byStreamID[streamID]; ok {
		delete(p.byPath, path)
		delete(p.byStreamID, streamID)
	}
}

// Lookup reports whether path has an outstanding promise and its stream id.
func (p *PromisedResources) Lookup(path string) (streamID uint32, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	streamID, ok = p.byPath[path]
	return streamID, ok
}

// PathFor returns the path a promised stream id was reserved for.
func (p *PromisedResources) PathFor(streamID uint32) (path string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path, ok = p.byStreamID[streamID]
	return path, ok
}
