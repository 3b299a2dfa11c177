package geotiff

import (
	"fmt"
)

// OpenError indicates a raster file that could not be opened or parsed.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open raster %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
