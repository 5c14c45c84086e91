package wol

import "errors"

var ErrInvalidMAC = errors.New("invalid mac address")
var ErrInvalidBroadcastAddr = errors.New("invalid broadcast address")
