package compiler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Options is the compiler configuration of a compile task. Values are typed
// cty values so that they can come from a build file or from Go code alike.
type Options map[string]cty.Value

// Clone returns a copy that can be changed without affecting o. cty values
// are immutable, so a shallow copy is enough.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Set stores a Go value, converting it to its implied cty type.
func (o Options) Set(key string, value any) error {
	if v, ok := value.(cty.Value); ok {
		o[key] = v
		return nil
	}
	ty, err := gocty.ImpliedType(value)
	if err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	v, err := gocty.ToCtyValue(value, ty)
	if err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	o[key] = v
	return nil
}

// Decode stores the value of key into target, which must be a pointer. It
// reports false when the key is absent or null.
func (o Options) Decode(key string, target any) (bool, error) {
	v, ok := o[key]
	if !ok || v.IsNull() {
		return false, nil
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return false, fmt.Errorf("option %q: %w", key, err)
	}
	return true, nil
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OptionSchema is the set of option keys a compiler recognises.
type OptionSchema struct {
	Keys map[string]cty.Type
	// PassThrough keeps unrecognised keys as they are instead of rejecting
	// them.
	PassThrough bool
}

// Validate converts every recognised option to its declared type and
// returns the converted copy. All problems are reported together.
func (s OptionSchema) Validate(o Options) (Options, error) {
	out := make(Options, len(o))
	var errs []error
	for _, key := range o.Keys() {
		v := o[key]
		ty, known := s.Keys[key]
		if !known {
			if !s.PassThrough {
				errs = append(errs, fmt.Errorf("%w %q", ErrUnknownOption, key))
				continue
			}
			out[key] = v
			continue
		}
		converted, err := convert.Convert(v, ty)
		if err != nil {
			errs = append(errs, fmt.Errorf("option %q must be %s: %w", key, ty.FriendlyName(), err))
			continue
		}
		out[key] = converted
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
