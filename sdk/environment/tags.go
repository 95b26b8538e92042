package environment

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ParseEnvTags fills the struct cfg points to from environment variables named by its
// `env` tags, each prefixed with prefix. Supported tags:
//
//	env:"PG_DATABASE_URL"  variable name, joined to prefix with an underscore
//	default:"25"           used when the variable is unset or empty
//	required:"true"        an unset variable without default is an error
//	separator:"|"          element separator for slices, "," when omitted
//
// Fields may be strings, bools, any int, uint or float kind, time.Duration, string slices,
// or types implementing encoding.TextUnmarshaler. Nested structs without an env tag are
// walked with the same prefix. Every bad field is reported, not only the first.
func ParseEnvTags(prefix string, cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return errors.New("cfg must be a pointer to a struct")
	}
	return parseStruct(prefix, v.Elem())
}

func parseStruct(prefix string, v reflect.Value) error {
	var errs []error
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		field := v.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := sf.Tag.Lookup("env")
		if !ok {
			if field.Kind() == reflect.Struct && field.Type() != durationType {
				if err := parseStruct(prefix, field); err != nil {
					errs = append(errs, err)
				}
			}
			continue
		}

		key := GetEnvKeyPrefix(prefix, name)
		value := os.Getenv(key)
		if value == "" {
			if sf.Tag.Get("required") == "true" {
				errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
				continue
			}
			value = sf.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(field, value, sf.Tag.Get("separator")); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", sf.Name, key, err))
		}
	}
	return errors.Join(errs...)
}

func setField(field reflect.Value, value, separator string) error {
	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
	}
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
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
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		if separator == "" {
			separator = ","
		}
		parts := strings.Split(value, separator)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
