package config

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

var ErrDepartmentNotFound = errors.New("department not found")

// Registry resolves department profiles.
type Registry interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	GetDepartment(ctx context.Context, id string) (domain.Department, error)
}

type iniRegistry struct {
	departments map[string]domain.Department
}

// NewRegistry loads departments from an INI file; each non-empty section is a
// department keyed by its section name:
//
//	[licensing]
//	name     = Licensing Office
//	base_url = https://portal.example.com/api
//	token    = ...
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load departments from %s: %w", path, err)
	}
	return newRegistry(cfg), nil
}

// NewRegistryFromBytes is NewRegistry for inline configuration.
func NewRegistryFromBytes(data []byte) (Registry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse departments: %w", err)
	}
	return newRegistry(cfg), nil
}

func newRegistry(cfg *ini.File) *iniRegistry {
	r := &iniRegistry{departments: map[string]domain.Department{}}
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		id := section.Name()
		r.departments[id] = domain.Department{
			ID:      id,
			Name:    section.Key("name").MustString(id),
			BaseURL: section.Key("base_url").String(),
			Token:   section.Key("token").String(),
		}
	}
	return r
}

func (r *iniRegistry) ListDepartments(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *iniRegistry) GetDepartment(_ context.Context, id string) (domain.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return domain.Department{}, fmt.Errorf("%w: %s", ErrDepartmentNotFound, id)
	}
	return d, nil
}
