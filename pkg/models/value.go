package models

// OptionalString represents an optional string argument that may be null.
type OptionalString struct {
	Value string
	Null  bool
	Set   bool
}

func NewOptionalString(v string) OptionalString {
	return OptionalString{Value: v, Set: true}
}

// Ptr returns a pointer to the underlying value. Returns nil if Set is false or Null is true.
func (o *OptionalString) Ptr() *string {
	if !o.Set || o.Null {
		return nil
	}

	v := o.Value
	return &v
}

// OptionalFloat64 represents an optional float argument that may be null.
type OptionalFloat64 struct {
	Value float64
	Null  bool
	Set   bool
}

func NewOptionalFloat64(v float64) OptionalFloat64 {
	return OptionalFloat64{Value: v, Set: true}
}

// Ptr returns a pointer to the underlying value. Returns nil if Set is false or Null is true.
func (o *OptionalFloat64) Ptr() *float64 {
	if !o.Set || o.Null {
		return nil
	}

	v := o.Value
	return &v
}
