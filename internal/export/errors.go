package export

import "errors"

var (
	ErrNoPicture = errors.New("export: nil picture")
	ErrNoRows    = errors.New("export: picture has no row length")
)
