package core

import "strings"

// Catalog хранит дескрипторы всех команд. Строится один раз, дальше только читается.
type Catalog struct {
	descriptors []*Descriptor
	byAlias     map[string]*Descriptor
	byQualified map[string]*Descriptor
	defaults    map[string]*Descriptor
	types       []string
}

// NewCatalog строит каталог из явного списка типов-обработчиков.
// Все конфликты имен обнаруживаются здесь, до первого разбора argv.
func NewCatalog(types ...HandlerType) (*Catalog, error) {
	c := &Catalog{
		byAlias:     make(map[string]*Descriptor),
		byQualified: make(map[string]*Descriptor),
		defaults:    make(map[string]*Descriptor),
	}
	seenTypes := make(map[string]string, len(types))
	for _, ht := range types {
		name := strings.TrimSpace(ht.Name)
		if name == "" {
			return nil, configErrorf("handler type name is empty")
		}
		if strings.Contains(name, ".") {
			return nil, configErrorf("handler type %s: name must not contain '.'", name)
		}
		if prev, exists := seenTypes[normalize(name)]; exists {
			return nil, configErrorf("duplicate handler type name %s and %s", prev, name)
		}
		seenTypes[normalize(name)] = name
		if ht.New == nil {
			return nil, configErrorf("handler type %s: factory is nil", name)
		}
		c.types = append(c.types, name)

		for _, m := range ht.Methods {
			d, err := newDescriptor(name, ht.New, m)
			if err != nil {
				return nil, err
			}
			if err := c.add(d); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func newDescriptor(typeName string, factory Factory, m Method) (*Descriptor, error) {
	method := strings.TrimSpace(m.Name)
	if method == "" {
		return nil, configErrorf("handler type %s: method name is empty", typeName)
	}
	if strings.Contains(method, ".") {
		return nil, configErrorf("%s.%s: method name must not contain '.'", typeName, method)
	}
	if m.Invoke == nil {
		return nil, configErrorf("%s.%s: invoke func is nil", typeName, method)
	}

	aliases := make([]string, 0, len(m.Aliases))
	for _, a := range m.Aliases {
		a = strings.TrimSpace(a)
		if a == "" || strings.ContainsAny(a, " \t\r\n") || looksLikeFlag(a) {
			return nil, configErrorf("%s.%s: invalid alias %q", typeName, method, a)
		}
		aliases = append(aliases, a)
	}

	params := make([]ParamSpec, len(m.Params))
	seen := make(map[string]struct{}, len(m.Params))
	for i, p := range m.Params {
		if strings.TrimSpace(p.Name) == "" || looksLikeFlag(p.Name) {
			return nil, configErrorf("%s.%s: invalid parameter name %q", typeName, method, p.Name)
		}
		key := normalize(p.Name)
		if _, dup := seen[key]; dup {
			return nil, configErrorf("%s.%s: duplicate parameter %s", typeName, method, p.Name)
		}
		seen[key] = struct{}{}
		if err := checkDefault(p); err != nil {
			return nil, configErrorf("%s.%s: %v", typeName, method, err)
		}
		p.Position = i
		p.Values = append([]string(nil), p.Values...)
		p.Default = cloneValue(p.Default)
		params[i] = p
	}

	return &Descriptor{
		TypeName: typeName,
		Method:   method,
		Aliases:  aliases,
		Usage:    m.Usage,
		Params:   params,
		factory:  factory,
		invoke:   m.Invoke,
	}, nil
}

func (c *Catalog) add(d *Descriptor) error {
	qkey := normalize(d.QualifiedName())
	if prev, exists := c.byQualified[qkey]; exists {
		return configErrorf("duplicate method %s and %s", prev.QualifiedName(), d.QualifiedName())
	}
	if d.IsDefault() {
		tkey := normalize(d.TypeName)
		if prev, exists := c.defaults[tkey]; exists {
			return configErrorf("handler type %s has more than one default command: %s and %s",
				d.TypeName, prev.Method, d.Method)
		}
		c.defaults[tkey] = d
	}
	for _, a := range d.Aliases {
		key := normalize(a)
		if prev, exists := c.byAlias[key]; exists {
			return configErrorf("duplicate command name %q: %s and %s", a, prev.QualifiedName(), d.QualifiedName())
		}
		c.byAlias[key] = d
	}
	c.byQualified[qkey] = d
	c.descriptors = append(c.descriptors, d)
	return nil
}

// Descriptors возвращает дескрипторы в порядке регистрации.
func (c *Catalog) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), c.descriptors...)
}

// Types возвращает имена типов-обработчиков в порядке регистрации.
func (c *Catalog) Types() []string {
	return append([]string(nil), c.types...)
}

// Single сообщает, построен ли каталог для одного фиксированного типа.
func (c *Catalog) Single() bool { return len(c.types) == 1 }

// HasAlias сообщает, объявлен ли псевдоним пользователем.
func (c *Catalog) HasAlias(name string) bool {
	_, ok := c.byAlias[normalize(name)]
	return ok
}

// Lookup ищет команду по псевдониму без учета регистра.
func (c *Catalog) Lookup(alias string) (*Descriptor, bool) {
	d, ok := c.byAlias[normalize(alias)]
	return d, ok
}

// LookupQualified ищет команду по паре Type, Method.
func (c *Catalog) LookupQualified(typeName, method string) (*Descriptor, bool) {
	d, ok := c.byQualified[normalize(typeName+"."+method)]
	return d, ok
}

// Default возвращает команду по умолчанию; имеет смысл только для каталога одного типа.
func (c *Catalog) Default() (*Descriptor, bool) {
	if !c.Single() {
		return nil, false
	}
	d, ok := c.defaults[normalize(c.types[0])]
	return d, ok
}
