package commands

import (
	"ltask/internal/service"
)

// filterValue is a flag.Value accepting all, active or completed.
type filterValue struct {
	f *service.Filter
}

func newFilterValue(f *service.Filter) *filterValue {
	*f = service.FilterAll
	return &filterValue{f: f}
}

func (v *filterValue) String() string {
	if v == nil || v.f == nil {
		return string(service.FilterAll)
	}
	return string(*v.f)
}

func (v *filterValue) Set(s string) error {
	f, err := service.ParseFilter(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

// optString is a string flag that records whether it was given, so an
// explicit empty value can be told apart from an absent flag.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// ptr returns nil when the flag was not given.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
