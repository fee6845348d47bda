package worker

import "errors"

// ErrEncode marks results whose embedding step failed.
var ErrEncode = errors.New("encode phrases")
