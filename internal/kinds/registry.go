package kinds

import (
	"embed"
	"fmt"
	"sort"

	"mentorship/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed config/kinds.yaml
var configFiles embed.FS

type registryFile struct {
	Kinds []models.EntityKind `yaml:"kinds"`
}

// Registry holds the ordered entity kinds. It is read-only after construction.
type Registry struct {
	kinds map[string]*models.EntityKind
}

// NewRegistry loads the embedded kinds.yaml.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/kinds.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read kinds.yaml: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML and validates every entry.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kinds: %w", err)
	}
	if len(file.Kinds) == 0 {
		return nil, fmt.Errorf("no kinds defined")
	}

	r := &Registry{kinds: make(map[string]*models.EntityKind, len(file.Kinds))}
	for i := range file.Kinds {
		kind := file.Kinds[i]
		if err := validateKind(&kind); err != nil {
			return nil, fmt.Errorf("kind %q: %w", kind.Name, err)
		}
		if _, dup := r.kinds[kind.Name]; dup {
			return nil, fmt.Errorf("kind %q defined twice", kind.Name)
		}
		r.kinds[kind.Name] = &kind
	}
	return r, nil
}

// knownTables are the ordered tables the repositories create and address.
var knownTables = []interface{}{"chapters", "modules", "videos"}

func validateKind(k *models.EntityKind) error {
	return validation.ValidateStruct(k,
		validation.Field(&k.Name, validation.Required),
		validation.Field(&k.Table, validation.Required, validation.In(knownTables...)),
		validation.Field(&k.ParentColumn, validation.Required),
		validation.Field(&k.IDsField, validation.Required),
		validation.Field(&k.ParentField, validation.When(k.ParentRequired, validation.Required)),
		validation.Field(&k.OrdinalBase, validation.In(0, 1)),
	)
}

// Get returns the kind with the given name.
func (r *Registry) Get(name string) (*models.EntityKind, bool) {
	kind, ok := r.kinds[name]
	return kind, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
