package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrAlreadyExists = errors.New("item with this id already exists")
