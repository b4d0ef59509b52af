package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Populate fills the fields of the struct pointed to by target that carry an
// `inject:"name"` tag. A tag of `inject:"name,optional"` leaves the field
// untouched when name is not registered.
func Populate(target any, c Cradle) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("populate: target must be a non-nil struct pointer, got %T", target)
	}

	el := v.Elem()
	t := el.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("inject")
		if !ok || tag == "-" {
			continue
		}

		name, optional := parseTag(tag, field.Name)
		if !field.IsExported() {
			return fmt.Errorf("populate %s.%s: field is not exported", t.Name(), field.Name)
		}

		dep, err := c.Resolve(name)
		if err != nil {
			if optional && errors.Is(err, ErrNotRegistered) {
				continue
			}
			return fmt.Errorf("populate %s.%s: %w", t.Name(), field.Name, err)
		}
		if dep == nil {
			continue
		}

		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(field.Type) {
			return fmt.Errorf("populate %s.%s: %s is not assignable to %s", t.Name(), field.Name, dv.Type(), field.Type)
		}
		el.Field(i).Set(dv)
	}
	return nil
}

func parseTag(tag, fieldName string) (string, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(fieldName[:1]) + fieldName[1:]
	}
	return name, opts == "optional"
}
