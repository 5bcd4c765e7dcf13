package domain

import "errors"

var (
	ErrFetch           = errors.New("fetch failed")
	ErrParse           = errors.New("parse failed")
	ErrDelivery        = errors.New("delivery failed")
	ErrChannelNotFound = errors.New("channel not found")
	ErrPersistence     = errors.New("persistence failed")
)

var (
	ErrChannelNotWhitelisted = errors.New("channel is not whitelisted")
	ErrNotTracking           = errors.New("item is not tracked")
	ErrAlreadyTracking       = errors.New("item is already tracked")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrInvalidItemID         = errors.New("invalid item id")
)
