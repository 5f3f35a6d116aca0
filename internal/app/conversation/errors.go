package conversation

import "errors"

var errNoStore = errors.New("no chat store configured")
