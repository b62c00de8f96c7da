package tooldef

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/dsl"
)

var (
	// ErrUnsupportedType is returned when a parameter names a type the
	// converter does not know.
	ErrUnsupportedType = errors.New("tooldef: unsupported parameter type")
	// ErrInvalidDefinition is returned for definitions that cannot be
	// registered (missing name, bad pattern, ...).
	ErrInvalidDefinition = errors.New("tooldef: invalid definition")
)

// Parameter types understood by ParamDef.Type.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeAny     = "any"
)

// Definition describes one tool and the parameters its input accepts.
type Definition struct {
	Name        string              `yaml:"name" json:"name" jsonschema:"required,minLength=1,description=Unique tool name"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  map[string]ParamDef `yaml:"parameters,omitempty" json:"parameters,omitempty" jsonschema:"description=Input fields keyed by name"`
}

// ParamDef describes a single input field. Fields are required unless
// Optional is set.
type ParamDef struct {
	Type        string              `yaml:"type" json:"type" jsonschema:"required,enum=string,enum=number,enum=integer,enum=boolean,enum=array,enum=object,enum=any"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Optional    bool                `yaml:"optional,omitempty" json:"optional,omitempty"`
	Nullable    bool                `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Default     any                 `yaml:"default,omitempty" json:"default,omitempty"`
	Enum        []string            `yaml:"enum,omitempty" json:"enum,omitempty" jsonschema:"description=Allowed values for string parameters"`
	Min         *float64            `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64            `yaml:"max,omitempty" json:"max,omitempty"`
	MinLength   *int                `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength   *int                `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern     string              `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format      string              `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"description=validator tag such as email or uuid"`
	MinItems    *int                `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems    *int                `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Items       *ParamDef           `yaml:"items,omitempty" json:"items,omitempty"`
	Properties  map[string]ParamDef `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Shape converts the parameter definitions into a dsl.Shape.
func (d Definition) Shape() (dsl.Shape, error) {
	return shapeOf(d.Parameters, "")
}

// Schema returns the object schema for the tool input.
func (d Definition) Schema() (toolskema.Schema[map[string]any], error) {
	shape, err := d.Shape()
	if err != nil {
		return nil, err
	}
	return dsl.FromShape(shape), nil
}

func shapeOf(params map[string]ParamDef, base string) (dsl.Shape, error) {
	shape := make(dsl.Shape, len(params))
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		ad, err := params[name].adapter(base + "/" + toolskema.PointerToken(name))
		if err != nil {
			return nil, err
		}
		shape[name] = ad
	}
	return shape, nil
}

func (p ParamDef) adapter(path string) (dsl.AnyAdapter, error) {
	ad, err := p.base(path)
	if err != nil {
		return dsl.AnyAdapter{}, err
	}
	if p.Nullable {
		ad = ad.Nullable()
	}
	if p.Default != nil {
		ad = ad.Default(p.Default)
	}
	if p.Description != "" {
		ad = ad.Describe(p.Description)
	}
	if p.Optional {
		ad = ad.Optional()
	}
	return ad, nil
}

func (p ParamDef) base(path string) (dsl.AnyAdapter, error) {
	switch p.Type {
	case TypeString:
		return p.stringAdapter(path)
	case TypeNumber:
		nb := dsl.NumberJSON()
		if p.Min != nil {
			nb = nb.Min(*p.Min)
		}
		if p.Max != nil {
			nb = nb.Max(*p.Max)
		}
		return dsl.NumberWith[json.Number](nb), nil
	case TypeInteger:
		ad := dsl.IntOf()
		if p.Min != nil {
			ad = ad.Min(*p.Min)
		}
		if p.Max != nil {
			ad = ad.Max(*p.Max)
		}
		return ad, nil
	case TypeBoolean:
		return dsl.BoolOf[bool](), nil
	case TypeArray:
		elem := dsl.AnyOf()
		if p.Items != nil {
			var err error
			if elem, err = p.Items.adapter(path + "/items"); err != nil {
				return dsl.AnyAdapter{}, err
			}
		}
		ab := dsl.Array(dsl.AsSchema(elem))
		if p.MinItems != nil {
			ab = ab.Min(*p.MinItems)
		}
		if p.MaxItems != nil {
			ab = ab.Max(*p.MaxItems)
		}
		return dsl.ArrayOfSchema(ab), nil
	case TypeObject:
		if len(p.Properties) == 0 {
			// like an array without items: any members
			return dsl.SchemaOf(dsl.FromShapeWith(nil, toolskema.UnknownPassthrough)), nil
		}
		shape, err := shapeOf(p.Properties, path)
		if err != nil {
			return dsl.AnyAdapter{}, err
		}
		return dsl.ShapeOf(shape), nil
	case TypeAny:
		return dsl.AnyOf(), nil
	default:
		return dsl.AnyAdapter{}, fmt.Errorf("%w %q at %s", ErrUnsupportedType, p.Type, path)
	}
}

func (p ParamDef) stringAdapter(path string) (dsl.AnyAdapter, error) {
	if len(p.Enum) > 0 {
		return dsl.EnumOf(p.Enum...), nil
	}
	sb := dsl.String()
	if p.MinLength != nil {
		sb = sb.Min(*p.MinLength)
	}
	if p.MaxLength != nil {
		sb = sb.Max(*p.MaxLength)
	}
	if p.Pattern != "" {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return dsl.AnyAdapter{}, fmt.Errorf("%w: pattern at %s: %w", ErrInvalidDefinition, path, err)
		}
		sb = sb.Pattern(re)
	}
	if p.Format != "" {
		if err := dsl.CheckTag(p.Format); err != nil {
			return dsl.AnyAdapter{}, fmt.Errorf("%w: format at %s: %w", ErrInvalidDefinition, path, err)
		}
		return dsl.TagWith(sb, p.Format), nil
	}
	return dsl.StringWith[string](sb), nil
}
