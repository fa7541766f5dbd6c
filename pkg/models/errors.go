package models

import "errors"

// ErrNotFound signifies entities which are not found
var ErrNotFound = errors.New("not found")
