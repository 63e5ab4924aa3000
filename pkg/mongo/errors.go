package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrQueryFailed            = errors.New("failed to query entity records")
	ErrMissingIdentifier      = errors.New("record has no identifier")
)
