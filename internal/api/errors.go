package api

import "errors"

// Client-visible error messages. The strings are part of the API contract and
// must not change.
var (
	errUnauthorized   = errors.New("Unauthorized")
	errNotFound       = errors.New("Not found")
	errMissingEmail   = errors.New("Missing email")
	errMissingPasswd  = errors.New("Missing password")
	errAlreadyExist   = errors.New("Already exist")
	errMissingName    = errors.New("Missing name")
	errMissingType    = errors.New("Missing type")
	errMissingData    = errors.New("Missing data")
	errInvalidData    = errors.New("Invalid data")
	errParentNotFound = errors.New("Parent not found")
	errParentNoFolder = errors.New("Parent is not a folder")
	errFolderNoData   = errors.New("A folder doesn't have content")
	errInternal       = errors.New("Internal Server Error")
)
