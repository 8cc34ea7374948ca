package rules

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"gridworld-server/internal/domain"
)

// Registry - реестр имя -> определение действия. По нему действия
// восстанавливаются из сериализованных пэйлоадов.
type Registry struct {
	actions map[string]*Action
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register добавляет действие; повторная регистрация имени - ошибка.
func (r *Registry) Register(a *Action) error {
	if a.Name == "" {
		return fmt.Errorf("registry: действие без имени")
	}
	if _, exists := r.actions[a.Name]; exists {
		return fmt.Errorf("registry: действие %q уже зарегистрировано", a.Name)
	}
	r.actions[a.Name] = a
	return nil
}

// Get возвращает действие по имени.
func (r *Registry) Get(name string) (*Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names возвращает отсортированный список зарегистрированных имен.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- ЗАГРУЗКА ДЕКЛАРАТИВНЫХ ДЕЙСТВИЙ ИЗ YAML ---
// Файл описывает действия, выразимые данными: литеральные условия,
// сравнения стандартными операторами и литеральные последствия.
// Действия с функциональными трансформациями регистрируются кодом.

type actionFile struct {
	Actions []actionDef `yaml:"actions"`
}

type actionDef struct {
	Name          string    `yaml:"name"`
	Prerequisites prereqDef `yaml:"prerequisites"`
	Consequences  consDef   `yaml:"consequences"`
}

type prereqDef struct {
	Source []statementDef `yaml:"source"`
	Target []statementDef `yaml:"target"`
	Pair   []statementDef `yaml:"pair"`
}

type statementDef struct {
	Describe    string                   `yaml:"describe"`
	Conditions  map[string]any           `yaml:"conditions"`
	Comparisons map[string]comparisonDef `yaml:"comparisons"`
}

type comparisonDef struct {
	Left  string `yaml:"left"`  // "source.attr" или "target.attr"
	Right string `yaml:"right"`
	Op    string `yaml:"op"` // eq, ne, lt, le, gt, ge
}

type consDef struct {
	Source map[string]any `yaml:"source"`
	Target map[string]any `yaml:"target"`
}

var compareOps = map[string]CompareFunc{
	"eq": CompareEq,
	"ne": CompareNe,
	"lt": CompareLt,
	"le": CompareLe,
	"gt": CompareGt,
	"ge": CompareGe,
}

// LoadFile читает YAML-файл определений и регистрирует все действия.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	defer f.Close()
	return r.Load(f)
}

// Load парсит определения действий из ридера и регистрирует их.
func (r *Registry) Load(src io.Reader) error {
	var file actionFile
	dec := yaml.NewDecoder(src)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("registry: парсинг YAML: %w", err)
	}

	for _, def := range file.Actions {
		action, err := buildAction(def)
		if err != nil {
			return fmt.Errorf("registry: действие %q: %w", def.Name, err)
		}
		if err := r.Register(action); err != nil {
			return err
		}
	}
	return nil
}

func buildAction(def actionDef) (*Action, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("пустое имя")
	}

	a := &Action{Name: def.Name}

	var err error
	if a.Prerequisites.Source, err = buildStatements(def.Prerequisites.Source); err != nil {
		return nil, err
	}
	if a.Prerequisites.Target, err = buildStatements(def.Prerequisites.Target); err != nil {
		return nil, err
	}
	if a.Prerequisites.Pair, err = buildStatements(def.Prerequisites.Pair); err != nil {
		return nil, err
	}

	if a.Consequences.Source, err = buildTransformations(def.Consequences.Source); err != nil {
		return nil, err
	}
	if a.Consequences.Target, err = buildTransformations(def.Consequences.Target); err != nil {
		return nil, err
	}
	return a, nil
}

func buildStatements(defs []statementDef) ([]*Statement, error) {
	var out []*Statement
	for _, def := range defs {
		st := &Statement{
			Describe:   def.Describe,
			Conditions: make(map[string]domain.Value, len(def.Conditions)),
		}
		for name, raw := range def.Conditions {
			v, err := domain.ValueFromPrimitive(raw)
			if err != nil {
				return nil, fmt.Errorf("условие %q: %w", name, err)
			}
			st.Conditions[name] = v
		}
		if len(def.Comparisons) > 0 {
			st.Comparisons = make(map[string]Comparison, len(def.Comparisons))
			for name, cd := range def.Comparisons {
				cmp, err := buildComparison(cd)
				if err != nil {
					return nil, fmt.Errorf("сравнение %q: %w", name, err)
				}
				st.Comparisons[name] = cmp
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func buildComparison(def comparisonDef) (Comparison, error) {
	left, err := parseAttrRef(def.Left)
	if err != nil {
		return Comparison{}, err
	}
	right, err := parseAttrRef(def.Right)
	if err != nil {
		return Comparison{}, err
	}
	fn, ok := compareOps[def.Op]
	if !ok {
		return Comparison{}, fmt.Errorf("неизвестный оператор %q", def.Op)
	}
	return Comparison{Left: left, Right: right, Compare: fn}, nil
}

func parseAttrRef(path string) (AttrRef, error) {
	parts := strings.SplitN(path, ".", 2)
	if len(parts) != 2 || (parts[0] != "source" && parts[0] != "target") {
		return AttrRef{}, fmt.Errorf("невалидный путь атрибута %q (ожидается source.attr или target.attr)", path)
	}
	return AttrRef{Entity: parts[0], Attribute: parts[1]}, nil
}

func buildTransformations(raw map[string]any) (map[string]Transformation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]Transformation, len(raw))
	for name, rv := range raw {
		v, err := domain.ValueFromPrimitive(rv)
		if err != nil {
			return nil, fmt.Errorf("трансформация %q: %w", name, err)
		}
		out[name] = Lit(v)
	}
	return out, nil
}
