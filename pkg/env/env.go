// Package env fills struct fields from environment variables.
//
//	type Config struct {
//		Token   string        `env:"APP_TOKEN,required"`
//		Timeout time.Duration `env:"APP_TIMEOUT" env-default:"30s"`
//		Admins  []int64       `env:"APP_ADMINS" env-separator:";"`
//	}
//
// Supported field types are strings, booleans, integers, floats, durations,
// url.URL, time.Location, maps, slices, pointers to any of them, nested
// structs and every type implementing encoding.TextUnmarshaler.
package env

import (
	"encoding"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	TagValue     = "env"
	TagDefault   = "env-default"
	TagSeparator = "env-separator"

	defaultSeparator = ","
)

var (
	ErrNotStruct   = errors.New("not a struct")
	ErrRequired    = errors.New("required but not provided")
	ErrUnsupported = errors.New("unsupported type")
)

// FieldError describes a variable that could not be read into its field.
type FieldError struct {
	Field string
	Name  string
	Err   error
}

func (e *FieldError) Error() string {
	return "environment variable " + e.Name + " (" + e.Field + "): " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// LookupFunc reports the value of a variable and whether it is set.
type LookupFunc func(name string) (string, bool)

// Map returns a LookupFunc backed by m.
func Map(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

type parseFunc func(reflect.Value, string) error

var parsers = map[reflect.Type]parseFunc{
	reflect.TypeOf(struct{}{}): func(field reflect.Value, _ string) error {
		field.Set(reflect.ValueOf(struct{}{}))
		return nil
	},

	reflect.TypeOf(url.URL{}): func(field reflect.Value, value string) error {
		u, err := url.Parse(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(*u))
		return nil
	},

	reflect.TypeOf(time.Location{}): func(field reflect.Value, value string) error {
		loc, err := time.LoadLocation(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(*loc))
		return nil
	},

	reflect.TypeOf(time.Duration(0)): func(field reflect.Value, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	},
}

// Read fills root, a pointer to a struct, from the process environment.
func Read(root any) error {
	return ReadFrom(os.LookupEnv, root)
}

// ReadFrom fills root using lookup instead of the process environment.
func ReadFrom(lookup LookupFunc, root any) error {
	rootValue := reflect.ValueOf(root)
	if rootValue.Kind() == reflect.Ptr {
		rootValue = rootValue.Elem()
	}
	if rootValue.Kind() != reflect.Struct {
		return errors.Wrapf(ErrNotStruct, "read %v", rootValue.Kind())
	}
	return readStruct(lookup, rootValue)
}

func readStruct(lookup LookupFunc, rootValue reflect.Value) error {
	rootType := rootValue.Type()
	for i := 0; i < rootValue.NumField(); i++ {
		fieldType := rootType.Field(i)
		fieldValue := rootValue.Field(i)

		tag, tagged := fieldType.Tag.Lookup(TagValue)
		if !tagged {
			if !fieldType.IsExported() {
				continue
			}
			if fieldValue.Kind() == reflect.Ptr && fieldType.Type.Elem().Kind() == reflect.Struct {
				if fieldValue.IsNil() {
					fieldValue.Set(reflect.New(fieldType.Type.Elem()))
				}
				fieldValue = fieldValue.Elem()
			}
			if fieldValue.Kind() == reflect.Struct {
				if err := readStruct(lookup, fieldValue); err != nil {
					return err
				}
			}
			continue
		}
		if !fieldValue.CanSet() {
			continue
		}

		name, options := parseTag(tag)
		value, found := lookup(name)
		if !found {
			if options.Contains("required") {
				return &FieldError{Field: fieldType.Name, Name: name, Err: ErrRequired}
			}
			def, hasDefault := fieldType.Tag.Lookup(TagDefault)
			if !hasDefault {
				continue
			}
			value = def
		}

		sep, ok := fieldType.Tag.Lookup(TagSeparator)
		if !ok {
			sep = defaultSeparator
		}
		if err := parseValue(fieldValue, value, sep); err != nil {
			return &FieldError{Field: fieldType.Name, Name: name, Err: err}
		}
	}
	return nil
}

func parseValue(field reflect.Value, value, sep string) error {
	fieldType := field.Type()

	if parser, ok := parsers[fieldType]; ok {
		return parser(field, value)
	}

	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(value))
		}
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)

	case reflect.Slice:
		s, err := parseSlice(fieldType, value, sep)
		if err != nil {
			return err
		}
		field.Set(s)

	case reflect.Map:
		m, err := parseMap(fieldType, value, sep)
		if err != nil {
			return err
		}
		field.Set(m)

	case reflect.Ptr:
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return parseValue(field.Elem(), value, sep)

	default:
		return errors.Wrap(ErrUnsupported, fieldType.String())
	}
	return nil
}

func parseSlice(sliceType reflect.Type, value, sep string) (reflect.Value, error) {
	if strings.TrimSpace(value) == "" {
		return reflect.MakeSlice(sliceType, 0, 0), nil
	}
	items := strings.Split(value, sep)
	s := reflect.MakeSlice(sliceType, len(items), len(items))
	for i, item := range items {
		if err := parseValue(s.Index(i), strings.TrimSpace(item), sep); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "item %d", i)
		}
	}
	return s, nil
}

func parseMap(mapType reflect.Type, value, sep string) (reflect.Value, error) {
	m := reflect.MakeMap(mapType)
	if strings.TrimSpace(value) == "" {
		return m, nil
	}
	for _, pair := range strings.Split(value, sep) {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			return reflect.Value{}, errors.Errorf("invalid map item %q", pair)
		}

		key := reflect.New(mapType.Key()).Elem()
		if err := parseValue(key, k, sep); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "map key %q", k)
		}
		elem := reflect.New(mapType.Elem()).Elem()
		if err := parseValue(elem, v, sep); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "map value %q", v)
		}
		m.SetMapIndex(key, elem)
	}
	return m, nil
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opt, _ := strings.Cut(tag, ",")
	return name, tagOptions(opt)
}

func (o tagOptions) Contains(option string) bool {
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == option {
			return true
		}
	}
	return false
}
