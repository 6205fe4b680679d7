package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// raw decode shapes for the yaml schema document

type rawField struct {
	Name       string   `yaml:"name"`
	Column     string   `yaml:"column"`
	Kind       string   `yaml:"kind"`
	Filterable *bool    `yaml:"filterable"`
	Searchable bool     `yaml:"searchable"`
	Sortable   bool     `yaml:"sortable"`
	Operators  []string `yaml:"operators"`
	Values     []string `yaml:"values"`
}

type rawEntity struct {
	Name    string     `yaml:"name"`
	Table   string     `yaml:"table"`
	Storage string     `yaml:"storage"`
	Fields  []rawField `yaml:"fields"`
}

type rawSchema struct {
	Version  int         `yaml:"version"`
	Entities []rawEntity `yaml:"entities"`
}

// Load reads a yaml schema document from disk and compiles it
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and compiles a yaml schema document into a Registry
func Parse(data []byte) (*Registry, error) {
	var rs rawSchema
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	if rs.Version != 1 {
		return nil, fmt.Errorf("schema: unsupported schema version %d (want 1)", rs.Version)
	}
	if len(rs.Entities) == 0 {
		return nil, fmt.Errorf("schema: no entities declared")
	}

	reg := &Registry{
		Version:  rs.Version,
		entities: make(map[string]*Entity, len(rs.Entities)),
	}

	for _, re := range rs.Entities {
		if re.Name == "" {
			return nil, fmt.Errorf("schema: entity with empty name")
		}
		if _, dup := reg.entities[re.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate entity %q", re.Name)
		}
		ent, err := compileEntity(re)
		if err != nil {
			return nil, err
		}
		reg.entities[re.Name] = ent
		reg.names = append(reg.names, re.Name)
	}
	return reg, nil
}

func compileEntity(re rawEntity) (*Entity, error) {
	storage := Storage(re.Storage)
	if storage == "" {
		storage = StoragePostgres
	}
	switch storage {
	case StoragePostgres, StorageClickhouse:
	default:
		return nil, fmt.Errorf("schema: entity %q: unknown storage %q", re.Name, re.Storage)
	}

	table := re.Table
	if table == "" {
		table = re.Name
	}

	ent := &Entity{
		Name:    re.Name,
		Table:   table,
		Storage: storage,
		byName:  make(map[string]*Field, len(re.Fields)),
	}
	if len(re.Fields) == 0 {
		return nil, fmt.Errorf("schema: entity %q: no fields declared", re.Name)
	}

	for _, rf := range re.Fields {
		f, err := compileField(re.Name, rf)
		if err != nil {
			return nil, err
		}
		if _, dup := ent.byName[f.Name]; dup {
			return nil, fmt.Errorf("schema: entity %q: duplicate field %q", re.Name, f.Name)
		}
		ent.Fields = append(ent.Fields, f)
		ent.byName[f.Name] = f
	}
	return ent, nil
}

func compileField(entity string, rf rawField) (*Field, error) {
	if rf.Name == "" {
		return nil, fmt.Errorf("schema: entity %q: field with empty name", entity)
	}
	kind := DataKind(rf.Kind)
	if !KnownKind(kind) {
		return nil, fmt.Errorf("schema: entity %q field %q: unknown kind %q", entity, rf.Name, rf.Kind)
	}
	if len(rf.Values) > 0 && kind != KindEnum {
		return nil, fmt.Errorf("schema: entity %q field %q: values list only valid for enum kinds", entity, rf.Name)
	}

	column := rf.Column
	if column == "" {
		column = rf.Name
	}

	// filterable defaults to true; searchable/sortable default to false
	filterable := true
	if rf.Filterable != nil {
		filterable = *rf.Filterable
	}

	ops := make([]Operator, 0, len(rf.Operators))
	for _, o := range rf.Operators {
		op := Operator(o)
		if !KnownOperator(op) {
			return nil, fmt.Errorf("schema: entity %q field %q: unknown operator %q", entity, rf.Name, o)
		}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		ops = DefaultOperators(kind)
	}

	f := &Field{
		Name:       rf.Name,
		Column:     column,
		Kind:       kind,
		Filterable: filterable,
		Searchable: rf.Searchable,
		Sortable:   rf.Sortable,
		Operators:  ops,
		Enum:       rf.Values,
		ops:        make(map[Operator]struct{}, len(ops)),
	}
	for _, op := range ops {
		f.ops[op] = struct{}{}
	}
	if len(rf.Values) > 0 {
		f.enum = make(map[string]struct{}, len(rf.Values))
		for _, v := range rf.Values {
			f.enum[v] = struct{}{}
		}
	}
	if f.Searchable && kind != KindText && kind != KindEnum {
		return nil, fmt.Errorf("schema: entity %q field %q: kind %q is not searchable", entity, rf.Name, kind)
	}
	return f, nil
}
