// Package clicfg copies urfave/cli flag values into a tagged config struct.
package clicfg

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/urfave/cli/v3"
)

var ErrCannotParseFlags = errors.New("cannot parse flags")

var durationType = reflect.TypeOf(time.Duration(0))

// ParseFlags fills s (a pointer to struct) from the command's flags. Fields
// opt in with a `flag:"name"` tag; untagged fields are left alone.
func ParseFlags(c *cli.Command, s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: expected pointer to struct, got %T", ErrCannotParseFlags, s)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		flagName := field.Tag.Get("flag")
		if flagName == "" {
			continue
		}

		switch {
		case field.Type == durationType:
			fieldValue.SetInt(int64(c.Duration(flagName)))
		case field.Type.Kind() == reflect.String:
			fieldValue.SetString(c.String(flagName))
		case field.Type.Kind() == reflect.Bool:
			fieldValue.SetBool(c.Bool(flagName))
		case field.Type.Kind() == reflect.Int, field.Type.Kind() == reflect.Int64:
			fieldValue.SetInt(int64(c.Int(flagName)))
		default:
			return fmt.Errorf("%w: unsupported field type %s for flag %q",
				ErrCannotParseFlags, field.Type, flagName)
		}
	}

	return nil
}
