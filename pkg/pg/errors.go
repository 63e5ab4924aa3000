package pg

import "errors"

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrQueryFailed              = errors.New("failed to query entity records")
	ErrMissingIdentifier        = errors.New("record has no identifier")
)
