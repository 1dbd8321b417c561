package backup

import "volume-backup/src/engine"

// Helper containers started by the archiver carry HelperLabelKey=HelperMarker
// so later runs never back them up.
const (
	HelperLabelKey = "type"
	HelperMarker   = "backupcontainer"
)

// IsHelper reports whether the container is a backup helper.
func IsHelper(d engine.ContainerDetail) bool {
	v, ok := d.Label(HelperLabelKey)
	return ok && v == HelperMarker
}
