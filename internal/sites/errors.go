package sites

import "errors"

var ErrPanelCLINotFound = errors.New("panel CLI not found on host")
