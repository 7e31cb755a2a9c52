package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// ErrUnrecognizedIdentity is returned when no profile keyword matches the
// file identity. Audits must not proceed with a guessed profile.
var ErrUnrecognizedIdentity = errors.New("unrecognized file identity")

// ErrUnknownProfile is returned for an explicit profile name not in the registry.
var ErrUnknownProfile = errors.New("unknown profile")

// Registry is an ordered, immutable set of rule profiles.
type Registry struct {
	version  string
	profiles []*RuleProfile
}

// Default builds the registry from the embedded profiles.yaml.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultProfiles))
}

// LoadFile builds a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load builds a registry from YAML. Profile order in the document is the
// resolution order.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("profiles document defines no profiles")
	}

	reg := &Registry{version: doc.Version}
	seen := make(map[string]bool)
	for i := range doc.Profiles {
		p, err := doc.Profiles[i].build()
		if err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
		reg.profiles = append(reg.profiles, p)
	}
	return reg, nil
}

// Version returns the registry document version.
func (r *Registry) Version() string {
	return r.version
}

// Resolve returns the first profile, in registry order, with a keyword
// contained in identity (usually the uploaded file name).
func (r *Registry) Resolve(identity string) (*RuleProfile, error) {
	for _, p := range r.profiles {
		if p.Matches(identity) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedIdentity, identity)
}

// Get returns a profile by name, for explicit user selection.
func (r *Registry) Get(name string) (*RuleProfile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Name, name) || p.Title == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Profiles returns the profiles in resolution order.
func (r *Registry) Profiles() []*RuleProfile {
	out := make([]*RuleProfile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Names returns profile names in resolution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		names = append(names, p.Name)
	}
	return names
}
