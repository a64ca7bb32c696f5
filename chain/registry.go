package chain

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable index of chain metadata, addressable by chain name
// and by message domain id.
type Registry struct {
	byName   map[string]Metadata
	byDomain map[uint32]string
}

// NewRegistry builds a registry from the given chains. Duplicate names or
// domain ids are configuration errors.
func NewRegistry(chains ...Metadata) (*Registry, error) {
	r := &Registry{
		byName:   make(map[string]Metadata, len(chains)),
		byDomain: make(map[uint32]string, len(chains)),
	}
	for _, m := range chains {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.byName[m.Name]; ok {
			return nil, fmt.Errorf("duplicate chain %s in registry", m.Name)
		}
		if existing, ok := r.byDomain[m.DomainID]; ok {
			return nil, fmt.Errorf("chains %s and %s share domain id %d", existing, m.Name, m.DomainID)
		}
		r.byName[m.Name] = m
		r.byDomain[m.DomainID] = m.Name
	}
	return r, nil
}

// Get returns the metadata for a chain name.
func (r *Registry) Get(name string) (Metadata, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// ByDomain returns the metadata for a message domain id.
func (r *Registry) ByDomain(domain uint32) (Metadata, bool) {
	name, ok := r.byDomain[domain]
	if !ok {
		return Metadata{}, false
	}
	return r.byName[name], true
}

// Names returns all registered chain names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

// LoadRegistryDir reads a registry laid out as
// <dir>/chains/<chainName>/metadata.yaml, the on-disk format produced by
// registry tooling.
func LoadRegistryDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "chains"))
	if err != nil {
		return nil, fmt.Errorf("reading registry dir %s: %w", dir, err)
	}

	var chains []Metadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadataPath := filepath.Join(dir, "chains", entry.Name(), "metadata.yaml")
		data, err := os.ReadFile(metadataPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", metadataPath, err)
		}
		var m Metadata
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", metadataPath, err)
		}
		if m.Name == "" {
			m.Name = entry.Name()
		}
		chains = append(chains, m)
	}
	return NewRegistry(chains...)
}
