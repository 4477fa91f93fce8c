package install

import "errors"

var (
	ErrCouldNotConnect     = errors.New("could not connect over SSH")
	ErrDownloadFailed      = errors.New("installer download failed")
	ErrInstallerFailed     = errors.New("installer signaled failure in its output")
	ErrInstallerDidNotRun  = errors.New("installer did not run to completion")
	ErrPasswordNotFound    = errors.New("admin password not found in installer output")
	ErrInstallerExitedWith = errors.New("installer exited with a non-zero code")
)
