package reporting

import "errors"

var (
	ErrNilReport      = errors.New("reporting: nil report")
	ErrDeliveryFailed = errors.New("reporting: delivery failed")
	ErrCacheVerdict   = errors.New("reporting: failed to cache verdict")
	ErrArchiveReport  = errors.New("reporting: failed to archive report")
	ErrIndexReport    = errors.New("reporting: failed to index violations")
	ErrStoreDocument  = errors.New("reporting: failed to store report document")
	ErrNotify         = errors.New("reporting: failed to send notification")
	ErrPublishEvent   = errors.New("reporting: failed to publish run event")
)
