package backup

import (
	"context"
	"io"
	"strings"

	"github.com/juju/errors"

	"volume-backup/src/engine"
	"volume-backup/src/util/progress"
)

// HelperMountPoint is where the destination directory appears inside the helper.
const HelperMountPoint = "/backupdest"

// Runner is the engine verb the archiver needs.
type Runner interface {
	RunContainer(ctx context.Context, args []string, stdout io.Writer) error
}

// Sanitize turns a mount path into a filename fragment by replacing every
// path separator with an underscore.
func Sanitize(path string) string {
	return strings.ReplaceAll(path, "/", "_")
}

// ArchiveName is the archive filename for one mount of a container.
func ArchiveName(container, mountPath string) string {
	return container + Sanitize(mountPath) + ".tar"
}

// Archiver writes one tar archive per mount through a helper container.
type Archiver struct {
	Engine  Runner
	Image   string
	DestDir string
	// Progress receives per-mount progress lines. Nil discards tar's output.
	Progress io.Writer
}

// HelperArgs builds the run arguments for archiving mount of the container
// with the given id and name.
func (a *Archiver) HelperArgs(id, name string, mount engine.MountInfo) []string {
	return []string{
		"--rm",
		"--label", HelperLabelKey + "=" + HelperMarker,
		"-v", a.DestDir + ":" + HelperMountPoint,
		"--volumes-from", id,
		a.Image,
		"tar", "cvf", HelperMountPoint + "/" + ArchiveName(name, mount.Destination),
		mount.Destination,
	}
}

// Archive runs the helper for a single mount and returns the archive name.
func (a *Archiver) Archive(ctx context.Context, detail engine.ContainerDetail, name string, mount engine.MountInfo) (string, error) {
	archive := ArchiveName(name, mount.Destination)
	var out io.Writer
	var pw *progress.Writer
	if a.Progress != nil {
		pw = progress.NewWriter(a.Progress, name+":"+mount.Destination)
		out = pw
	}
	err := a.Engine.RunContainer(ctx, a.HelperArgs(detail.ID, name, mount), out)
	if pw != nil {
		pw.Done()
	}
	if err != nil {
		return "", errors.Annotatef(err, "archive %s of %s", mount.Destination, name)
	}
	return archive, nil
}
