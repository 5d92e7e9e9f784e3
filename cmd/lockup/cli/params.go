// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is a params component that registers its own flags.
// [BindFlags] hands such fields the flag set instead of reading their
// tags.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams returns a flag set bound to params. A params struct
// that cannot be bound is a bug in the command, so this panics.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers one flag per tagged field of params, a pointer to
// a struct. Tags:
//
//	flag:"name" or flag:"name,n"   long name and optional shorthand
//	desc:"..."                     help text
//	default:"..."                  default in the flag's own syntax
//
// Fields may be string, bool, int, int64, uint8, uint64, float64,
// [time.Duration], or []string. Embedded structs bind through
// [FlagBinder] when they implement it and field by field otherwise.
// Untagged fields are left alone.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindFields(pointer.Elem(), flagSet)
}

func bindFields(value reflect.Value, flagSet *pflag.FlagSet) error {
	for i := range value.NumField() {
		field := value.Type().Field(i)
		fieldValue := value.Field(i)

		if field.IsExported() && field.Type.Kind() == reflect.Struct {
			if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
				binder.AddFlags(flagSet)
				continue
			}
			if field.Anonymous {
				if err := bindFields(fieldValue, flagSet); err != nil {
					return fmt.Errorf("embedded %s: %w", field.Name, err)
				}
				continue
			}
		}

		tag, tagged := field.Tag.Lookup("flag")
		if !tagged {
			continue
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		if err := register(flagSet, fieldValue.Addr().Interface(), name, shorthand, field.Tag.Get("desc")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		if err := applyDefault(flagSet.Lookup(name), field.Tag.Get("default")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// register adds the flag at its zero value.
func register(flagSet *pflag.FlagSet, target any, name, shorthand, usage string) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, name, shorthand, "", usage)
	case *bool:
		flagSet.BoolVarP(target, name, shorthand, false, usage)
	case *int:
		flagSet.IntVarP(target, name, shorthand, 0, usage)
	case *int64:
		flagSet.Int64VarP(target, name, shorthand, 0, usage)
	case *uint8:
		flagSet.Uint8VarP(target, name, shorthand, 0, usage)
	case *uint64:
		flagSet.Uint64VarP(target, name, shorthand, 0, usage)
	case *float64:
		flagSet.Float64VarP(target, name, shorthand, 0, usage)
	case *time.Duration:
		flagSet.DurationVarP(target, name, shorthand, 0, usage)
	case *[]string:
		flagSet.StringSliceVarP(target, name, shorthand, nil, usage)
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, name)
	}
	return nil
}

// applyDefault parses text with the flag's own parser so defaults read
// exactly like command-line values.
func applyDefault(flag *pflag.Flag, text string) error {
	if text == "" {
		return nil
	}
	if slice, ok := flag.Value.(pflag.SliceValue); ok {
		// Set on a slice value appends after the first call, which
		// would make the default stick to user values.
		if err := slice.Replace(strings.Split(text, ",")); err != nil {
			return fmt.Errorf("default for --%s: %w", flag.Name, err)
		}
	} else if err := flag.Value.Set(text); err != nil {
		return fmt.Errorf("default for --%s: %w", flag.Name, err)
	}
	flag.DefValue = flag.Value.String()
	return nil
}
