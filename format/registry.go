package format

import (
	"strings"
	"sync"
)

// Registry manages the available projection decoders and volume encoders
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]ProjectionDecoder // key can be either name or extension
	encoders map[string]VolumeEncoder
}

var defaultRegistry = &Registry{
	decoders: make(map[string]ProjectionDecoder),
	encoders: make(map[string]VolumeEncoder),
}

// RegisterDecoder registers a projection decoder using both its name and extensions
func RegisterDecoder(d ProjectionDecoder) {
	defaultRegistry.RegisterDecoder(d)
}

// RegisterEncoder registers a volume encoder using both its name and extensions
func RegisterEncoder(e VolumeEncoder) {
	defaultRegistry.RegisterEncoder(e)
}

// GetDecoder retrieves a projection decoder by name or extension
func GetDecoder(nameOrExt string) (ProjectionDecoder, error) {
	return defaultRegistry.GetDecoder(nameOrExt)
}

// GetEncoder retrieves a volume encoder by name or extension
func GetEncoder(nameOrExt string) (VolumeEncoder, error) {
	return defaultRegistry.GetEncoder(nameOrExt)
}

// ListDecoders returns all registered projection decoders
func ListDecoders() []ProjectionDecoder {
	return defaultRegistry.ListDecoders()
}

// ListEncoders returns all registered volume encoders
func ListEncoders() []VolumeEncoder {
	return defaultRegistry.ListEncoders()
}

// RegisterDecoder registers a projection decoder using both its name and extensions
func (r *Registry) RegisterDecoder(d ProjectionDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decoders[normalizeKey(d.Name())] = d
	for _, ext := range d.Extensions() {
		r.decoders[normalizeKey(ext)] = d
	}
}

// RegisterEncoder registers a volume encoder using both its name and extensions
func (r *Registry) RegisterEncoder(e VolumeEncoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[normalizeKey(e.Name())] = e
	for _, ext := range e.Extensions() {
		r.encoders[normalizeKey(ext)] = e
	}
}

// GetDecoder retrieves a projection decoder by name or extension
func (r *Registry) GetDecoder(nameOrExt string) (ProjectionDecoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decoders[normalizeKey(nameOrExt)]
	if !ok {
		return nil, ErrFormatNotFound
	}
	return d, nil
}

// GetEncoder retrieves a volume encoder by name or extension
func (r *Registry) GetEncoder(nameOrExt string) (VolumeEncoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.encoders[normalizeKey(nameOrExt)]
	if !ok {
		return nil, ErrFormatNotFound
	}
	return e, nil
}

// ListDecoders returns all registered projection decoders (deduplicated)
func (r *Registry) ListDecoders() []ProjectionDecoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[ProjectionDecoder]bool)
	decoders := make([]ProjectionDecoder, 0)

	for _, d := range r.decoders {
		if !seen[d] {
			seen[d] = true
			decoders = append(decoders, d)
		}
	}

	return decoders
}

// ListEncoders returns all registered volume encoders (deduplicated)
func (r *Registry) ListEncoders() []VolumeEncoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[VolumeEncoder]bool)
	encoders := make([]VolumeEncoder, 0)

	for _, e := range r.encoders {
		if !seen[e] {
			seen[e] = true
			encoders = append(encoders, e)
		}
	}

	return encoders
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimPrefix(k, "."))
}
